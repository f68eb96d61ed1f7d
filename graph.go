package qnet

import (
	"bytes"
	"fmt"
	"html"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/qnet/deepq"
	G "gorgonia.org/gorgonia"
)

type labeledNode struct {
	*G.Node
	learnable bool
}

func (n labeledNode) EscapedName() string {
	name := n.Name()
	if name == "" {
		name = fmt.Sprintf("op %d", n.ID())
	}
	return html.EscapeString(name)
}

func (n labeledNode) ShapeStr() string {
	return html.EscapeString(fmt.Sprintf("%v", n.Shape()))
}

func (n labeledNode) Kind() string {
	if n.learnable {
		return "learnable"
	}
	return "op/input"
}

// ToDot renders the expression graph of n in graphviz dot format, one table
// node per graph node, edges following the data flow.
func ToDot(n deepq.QNet) (string, error) {
	eg := n.Graph()
	if eg == nil {
		return "", fmt.Errorf("network is not initialized")
	}

	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	learnables := make(map[int64]bool)
	for _, l := range n.Model() {
		learnables[l.ID()] = true
	}

	var buf bytes.Buffer
	for _, node := range eg.AllNodes() {
		ln := labeledNode{Node: node, learnable: learnables[node.ID()]}
		buf.Reset()
		if err := tmpl.Execute(&buf, ln); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", fmt.Sprintf("n%d", node.ID()), attrs); err != nil {
			return "", err
		}
	}

	for _, node := range eg.AllNodes() {
		it := eg.From(node.ID())
		for it.Next() {
			child := it.Node()
			if err := g.AddEdge(fmt.Sprintf("n%d", node.ID()), fmt.Sprintf("n%d", child.ID()), true, nil); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Name</TD><TD>{{.EscapedName}}</TD></TR>
<TR><TD>Shape</TD><TD>{{.ShapeStr}}</TD></TR>
<TR><TD>Kind</TD><TD>{{.Kind}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("node").Parse(tmplRaw))
}
