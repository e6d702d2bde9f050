package combiner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ctos-report-extractor/internal/classifier"
	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

func frag(account string, seq int, xml string) types.Fragment {
	return types.Fragment{Account: account, Seq: seq, XML: xml}
}

func TestDedupeLastWriteWins(t *testing.T) {
	in := []types.Fragment{
		frag("A", 1, "first"),
		frag("A", 2, "second"),
		frag("A", 1, "replacement"),
		frag("B", 1, "other"),
	}
	out := Dedupe(in)

	assert.Len(t, out, 3)
	assert.Equal(t, "replacement", out[0].XML, "later duplicate replaces in place")
	assert.Equal(t, "second", out[1].XML)
	assert.Equal(t, "other", out[2].XML)
}

func TestGroupByAccountPreservesFirstSeenOrder(t *testing.T) {
	order, groups := GroupByAccount([]types.Fragment{
		frag("B", 1, "b1"),
		frag("A", 1, "a1"),
		frag("B", 2, "b2"),
	})

	assert.Equal(t, []string{"B", "A"}, order)
	assert.Len(t, groups["B"], 2)
	assert.Len(t, groups["A"], 1)
}

func TestCombineOrdersBySequence(t *testing.T) {
	got := Combine([]types.Fragment{
		frag("A", 2, "</report>"),
		frag("A", 1, "<report><data name=\"x\">hello</data>"),
	})
	assert.Equal(t, `<report><data name="x">hello</data></report>`, got)
}

func TestCombineStableForEqualSequence(t *testing.T) {
	got := Combine([]types.Fragment{
		frag("A", 0, "one"),
		frag("A", 0, "two"),
		frag("A", 0, "three"),
	})
	assert.Equal(t, "onetwothree", got)
}

func TestSelectBest(t *testing.T) {
	oldPerfect := `<report><section id="A"><record seq="1"><data name="x">v</data></record></section></report>`
	newPerfect := `<report><section_b1><account_no>1</account_no></section_b1></report>`
	denser := `<report><section id="A"><record seq="1"><data name="x">v</data><data name="y">w</data><data name="z">u</data></record></section></report>`
	wrapperOnly := `<ctos_xml>recovered scraps</ctos_xml>`

	log := zap.NewNop()
	sig := classifier.ExportSignature

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			name:       "single candidate returned as is",
			candidates: []string{wrapperOnly},
			want:       wrapperOnly,
		},
		{
			name:       "perfect beats wrapper",
			candidates: []string{wrapperOnly, oldPerfect},
			want:       oldPerfect,
		},
		{
			name:       "new beats old regardless of order",
			candidates: []string{oldPerfect, newPerfect},
			want:       newPerfect,
		},
		{
			name:       "new beats old reversed",
			candidates: []string{newPerfect, oldPerfect},
			want:       newPerfect,
		},
		{
			name:       "tag density breaks ties",
			candidates: []string{oldPerfect, denser},
			want:       denser,
		},
		{
			name:       "exact tie keeps first seen",
			candidates: []string{oldPerfect, oldPerfect},
			want:       oldPerfect,
		},
		{
			name:       "no perfect candidate keeps first",
			candidates: []string{wrapperOnly, `<ctos_xml>other</ctos_xml>`},
			want:       wrapperOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectBest(tt.candidates, sig, log))
		})
	}
}

func TestSelectBestEmpty(t *testing.T) {
	assert.Equal(t, "", SelectBest(nil, classifier.DisplaySignature, zap.NewNop()))
}

func TestCountOpeningTags(t *testing.T) {
	assert.Equal(t, 3, countOpeningTags(`<a><b>text</b></a><_x/>`))
	assert.Equal(t, 0, countOpeningTags(`</a> <!-- c --> <?pi?> <1bad>`))
}
