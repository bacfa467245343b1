package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	m.Observe(sampleReport())

	families, err := m.registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range metric.GetLabel() {
				key += "/" + lp.GetValue()
			}
			values[key] = metric.GetGauge().GetValue()
		}
	}

	assert.Equal(t, 3.0, values["metamap_formulas/Samples/valid"])
	assert.Equal(t, 2.0, values["metamap_names/unmatched/Samples"])
	assert.Equal(t, 2.0, values["metamap_reference_rows/mapped"])
	assert.Equal(t, 2.0, values["metamap_unmatched_formulas"])
	assert.Equal(t, 1.5, values["metamap_run_duration_seconds"])
	_, skipped := values["metamap_formulas/Sheet1/valid"]
	assert.False(t, skipped, "skipped sheets export no formula gauges")
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metamap.prom")
	require.NoError(t, WriteMetrics(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `metamap_sheet_rows{sheet="Samples"} 4`)
	assert.Contains(t, string(data), "# TYPE metamap_last_run_timestamp_seconds gauge")
}
