package runner

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/snpstruct/tool"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestResultTableAlign(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	table := newResultTable([]string{"SNP", "dMFE"})
	table.append("v1", &tool.Table{
		Columns: []string{"dMFE", "SNP"},
		Rows:    [][]string{{"0.5", "A1C"}},
	})
	// Unknown columns are appended; an ID column from the tool is dropped.
	table.append("v2", &tool.Table{
		Columns: []string{"SNP", "ID", "extra", "dMFE"},
		Rows:    [][]string{{"G2U", "ignored", "x", "0.7"}, {"G3U", "ignored", "y", "0.8"}},
	})
	table.append("v3", &tool.Table{Columns: []string{"SNP", "dMFE"}})
	expect.EQ(t, table.columns, []string{"SNP", "dMFE", "extra"})
	expect.EQ(t, table.len(), 3)

	path := filepath.Join(tmpDir, "out.csv")
	require.NoError(t, table.write(vcontext.Background(), path, 40))
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	expect.EQ(t, string(data), "ID\tSNP\tdMFE\textra\ttool-parameters:window=40\n"+
		"v1\tA1C\t0.5\t\t\n"+
		"v2\tG2U\t0.7\tx\t\n"+
		"v2\tG3U\t0.8\ty\t\n")
}

func TestOutputPath(t *testing.T) {
	expect.EQ(t, OutputPath("/data/run", 3, "rnasnp"), "/data/run_3_rnasnp.csv")
	expect.EQ(t, MergedPath("/data/run", "remurna"), "/data/run_remurna.csv")
	expect.EQ(t, ProvenanceColumn(0), "tool-parameters:window=0")
}
