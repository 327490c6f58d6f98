package memviz_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/internal/memviz"
)

func TestDumpWritesDotGraph(t *testing.T) {
	type node struct {
		Name     string
		Children []*node
	}
	root := &node{Name: "root", Children: []*node{{Name: "child"}}}

	var buf bytes.Buffer
	err := memviz.Dump(&buf, root)
	itest.ExpectSuccess(t, err)
	itest.Equate(t, strings.Contains(buf.String(), "digraph"), true)
}
