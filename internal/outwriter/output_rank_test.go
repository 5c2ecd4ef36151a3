package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankFixture() ([]schema.RankResult, schema.RankStats) {
	results := []schema.RankResult{
		{NodeID: 3, Name: "nginx", Kind: "process", Score: 0.41, InDegree: 7, OutDegree: 12, Group: "root"},
		{NodeID: 9, Name: "access.log", Kind: "artifact", Version: 2, Score: 0.02, InDegree: 1, OutDegree: 0, Group: "nginx"},
	}
	stats := schema.RankStats{Min: 0.01, Max: 0.41, Mean: 0.1, NodeCount: 10, Iterations: 200}
	return results, stats
}

func TestWriteRankTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 4, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)
	results, stats := rankFixture()

	var buf bytes.Buffer
	err := writeRankTable(results, stats, cfg, fmtFloat, 55*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "nginx")
	assert.Contains(t, out, "0.4100")
	assert.Contains(t, out, "Showing top 2 of 10 nodes")
	assert.Contains(t, out, "Ranking completed in 55ms with 200 iterations")
}

func TestWriteCSVResultsForRank(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	results, stats := rankFixture()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForRank(w, results, stats, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,node_id,name,kind,version,score,label,in_degree,out_degree,group", lines[0])
	assert.Equal(t, "1,3,nginx,process,0,0.41,Critical,7,12,root", lines[1])
	assert.Equal(t, "2,9,access.log,artifact,2,0.02,Low,1,0,nginx", lines[2])
}

func TestWriteJSONResultsForRank(t *testing.T) {
	results, stats := rankFixture()

	var buf bytes.Buffer
	err := writeJSONResultsForRank(&buf, results, stats)
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 2)

	assert.Equal(t, float64(1), parsed[0]["rank"])
	assert.Equal(t, "Critical", parsed[0]["label"])
	assert.Equal(t, "nginx", parsed[0]["name"])
	assert.Equal(t, 0.41, parsed[0]["score"])
	assert.Equal(t, "Low", parsed[1]["label"])
	assert.Equal(t, float64(2), parsed[1]["version"])
}

func TestScoreLabel(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	colored := &contract.Config{UseColors: true}

	assert.Equal(t, "Critical", scoreLabel(plain, 0.41, 0.01, 0.41))
	// The colored variant still carries the same text.
	assert.Contains(t, scoreLabel(colored, 0.41, 0.01, 0.41), "Critical")
}
