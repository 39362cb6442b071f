package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/replaycheck/internal/inspect"
	"github.com/roach88/replaycheck/internal/value"
)

func ids(n ...string) value.Array {
	arr := value.Array{}
	for _, s := range n {
		arr = append(arr, value.Number(s))
	}
	return arr
}

func TestInspection_Golden(t *testing.T) {
	rep := inspect.Report{
		Options: inspect.DefaultOptions(),
		Sections: []inspect.Section{{
			Side: inspect.SideCandidate,
			Records: []inspect.Record{
				{Index: 12, Value: ids("1", "2"), Status: inspect.StatusNew},
				{Index: 14, Value: ids("1", "2"), Status: inspect.StatusSame},
				{Index: 15, Value: ids(), Status: inspect.StatusNew},
			},
		}},
	}

	buf := &bytes.Buffer{}
	NewPrinter(buf, defaultOptions()).Inspection(rep)
	assertGolden(t, "inspection", buf.Bytes())
}

func TestInspection_BothWithEmptySection(t *testing.T) {
	opts := inspect.DefaultOptions()
	opts.Both = true
	rep := inspect.Report{
		Options: opts,
		Sections: []inspect.Section{
			{Side: inspect.SideReference, Records: []inspect.Record{}},
			{Side: inspect.SideCandidate, Records: []inspect.Record{
				{Index: 20, Value: ids("3"), Status: inspect.StatusNew},
			}},
		},
	}

	buf := &bytes.Buffer{}
	NewPrinter(buf, defaultOptions()).Inspection(rep)
	assertGolden(t, "inspection_both", buf.Bytes())
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "object_ids", fieldName("payload.object_ids"))
	assert.Equal(t, "ids", fieldName("ids"))
	assert.Equal(t, "", fieldName(""))
}
