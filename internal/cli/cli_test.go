package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

const evCSV = "Make,Model,Model Year,Electric Vehicle Type,Electric Range,Clean Alternative Fuel Vehicle (CAFV) Eligibility,City,County,State\n" +
	"TESLA,MODEL 3,2022,Battery Electric Vehicle (BEV),310,Clean Alternative Fuel Vehicle Eligible,Seattle,King,WA\n" +
	"TOYOTA,PRIUS PRIME,2019,Plug-in Hybrid Electric Vehicle (PHEV),25,Not eligible due to low battery range,Tacoma,Pierce,WA\n" +
	"NISSAN,LEAF,2015,Battery Electric Vehicle (BEV),84,Clean Alternative Fuel Vehicle Eligible,Olympia,Thurston,WA\n"

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"EVDASH_CONFIG", "PORT", "GIN_MODE", "EVDASH_CACHE_BACKEND", "EVDASH_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	t.Setenv("EVDASH_LOG_LEVEL", "disabled")
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ev.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--quiet", "--no-color"))
	err := root.Execute()
	return out.String(), err
}

func TestSummaryText(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "summary", writeCSV(t, evCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "3 rows, model years 2015-2022")
	assert.Contains(t, out, "Total vehicles")
	assert.Contains(t, out, "139.7 mi")
	assert.Contains(t, out, "Top manufacturers")
	assert.Contains(t, out, "Rows (page 1 of 1, 3 matching)")
	assert.Contains(t, out, "Seattle, King, WA")
}

func TestSummaryJSONWithFilters(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "summary", writeCSV(t, evCSV), "--json", "--type", "bev", "--year-from", "2016", "--top", "1")
	require.NoError(t, err)

	var v model.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "BEV", v.Filter.EVType)
	assert.Equal(t, 2016, v.Filter.YearFrom)
	assert.Equal(t, 2022, v.Filter.YearTo)
	assert.Equal(t, model.KPIs{Total: 1, BEV: 1, AvgRange: 310, MedianYear: 2022}, v.KPIs)
	assert.Len(t, v.TopMakes, 1)
}

func TestSummaryRejectsBadFlags(t *testing.T) {
	isolateEnv(t)
	path := writeCSV(t, evCSV)

	_, err := run(t, "summary", path, "--type", "HEV")
	assert.Error(t, err)

	_, err = run(t, "summary", path, "--year-from", "2030", "--year-to", "2020")
	assert.Error(t, err)
}

func TestSummaryIngestErrors(t *testing.T) {
	isolateEnv(t)
	_, err := run(t, "summary", writeCSV(t, "Make,Model\n"))
	assert.ErrorContains(t, err, "empty or malformed")

	_, err = run(t, "summary", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "open dataset")
}

func TestConfigShow(t *testing.T) {
	isolateEnv(t)
	t.Setenv("EVDASH_CACHE_REDIS_PASSWORD", "secret")
	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_path: data/Electric_Vehicle_Population_Data.csv")
	assert.Contains(t, out, "backend: memory")
	assert.NotContains(t, out, "secret")
}
