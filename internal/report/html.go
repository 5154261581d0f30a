package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const style = `body{font-family:sans-serif}table{border-collapse:collapse}` +
	`td,th{border:1px solid #ccc;padding:2px 6px}tr.error td{color:#b00}`

// WriteHTML writes the report as a standalone HTML page.
func WriteHTML(w io.Writer, s *Summary, title string) error {
	body := el(atom.Body)
	body.AppendChild(withText(el(atom.H1), title))
	body.AppendChild(withText(el(atom.P, attr("class", "wer")), fmt.Sprintf("WER = %v", s.WER)))
	body.AppendChild(withText(el(atom.P, attr("class", "correct")),
		fmt.Sprintf("Total correct: %d out of %d", s.Correct, s.Total)))
	if s.Failures > 0 {
		body.AppendChild(withText(el(atom.P, attr("class", "failures")),
			fmt.Sprintf("Scoring failures: %d", s.Failures)))
	}
	body.AppendChild(resultsTable(s))
	if len(s.Confusion) > 0 {
		body.AppendChild(withText(el(atom.H2), "Confusion matrix"))
		body.AppendChild(confusionTable(s))
	}

	head := el(atom.Head)
	head.AppendChild(el(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(el(atom.Title), title))
	head.AppendChild(withText(el(atom.Style), style))

	root := el(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	return html.Render(w, doc)
}

func resultsTable(s *Summary) *html.Node {
	table := el(atom.Table, attr("class", "results"))
	thead := el(atom.Thead)
	thead.AppendChild(row(atom.Th, "", "Video", "Recognized", "Correct"))
	table.AppendChild(thead)

	tbody := el(atom.Tbody)
	for _, r := range s.Rows {
		class := "ok"
		if r.Wrong() {
			class = "error"
		}
		tbody.AppendChild(row(atom.Td, class, strconv.Itoa(r.Video), r.Guess, r.Word))
	}
	table.AppendChild(tbody)
	return table
}

func confusionTable(s *Summary) *html.Node {
	table := el(atom.Table, attr("class", "confusion"))
	header := append([]string{""}, s.Classes...)
	header = append(header, "total", "acc%")
	thead := el(atom.Thead)
	thead.AppendChild(row(atom.Th, "", header...))
	table.AppendChild(thead)

	tbody := el(atom.Tbody)
	for _, trueClass := range s.Classes {
		total := support(s.Confusion, trueClass)
		if total == 0 {
			continue
		}
		cells := []string{trueClass}
		for _, predClass := range s.Classes {
			if n := s.Confusion[trueClass][predClass]; n > 0 {
				cells = append(cells, strconv.Itoa(n))
			} else {
				cells = append(cells, ".")
			}
		}
		cells = append(cells, strconv.Itoa(total), fmt.Sprintf("%.1f", s.Accuracy(trueClass)*100))
		tbody.AppendChild(row(atom.Td, "", cells...))
	}
	table.AppendChild(tbody)
	return table
}

func row(cell atom.Atom, class string, cells ...string) *html.Node {
	var tr *html.Node
	if class != "" {
		tr = el(atom.Tr, attr("class", class))
	} else {
		tr = el(atom.Tr)
	}
	for _, c := range cells {
		tr.AppendChild(withText(el(cell), c))
	}
	return tr
}

func el(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
