package tool_test

import (
	"fmt"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/snpstruct/tool"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	table, err := tool.ParseTable(
		"SNP\tw\tinterval\tp-value\tinterval\tp-value\tinterval\n" +
			"\n" +
			"G20C\t150\t1-40 \t0.2\t3-30\t0.1\t5-9\n" +
			"A3U\t150\t2-41\t0.3\t4-31\t0.05\t6-10\n")
	require.NoError(t, err)
	expect.EQ(t, table.Columns, []string{"SNP", "w", "interval", "p-value", "interval.1", "p-value.1", "interval.2"})
	expect.EQ(t, table.Len(), 2)
	expect.EQ(t, table.Get(0, "interval"), "1-40")
	expect.EQ(t, table.Get(1, "p-value.1"), "0.05")
	expect.EQ(t, table.Get(1, "no-such-column"), "")
}

func TestParseTableHeaderOnly(t *testing.T) {
	table, err := tool.ParseTable("SNP\tMFE(wt)\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"SNP", "MFE(wt)"}, table.Columns)
	assert.Equal(t, 0, table.Len())
}

func TestParseTableErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"\n\n",
		"SNP\tw\nG20C\t150\textra\n",
	} {
		_, err := tool.ParseTable(text)
		require.Error(t, err, "%q", text)
		assert.True(t, errors.Is(errors.Invalid, err), "%q: %v", text, err)
	}
}

func TestCleanOutput(t *testing.T) {
	var warnings []string
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	out, err := tool.CleanOutput("rnasnp", "in.fa", "WARNING: window too large\nSNP\tw\nG20C\t150\n", warn)
	require.NoError(t, err)
	assert.Equal(t, "SNP\tw\nG20C\t150\n\n", out)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "in.fa")
	assert.Contains(t, warnings[0], "WARNING: window too large")

	_, err = tool.CleanOutput("rnasnp", "in.fa", "SNP\tw\nG20C\t150\nsegmentation Error in fold\n", warn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segmentation Error in fold")
	assert.Contains(t, err.Error(), "in.fa")

	// "error" wins over "warning" on the same line.
	_, err = tool.CleanOutput("rnasnp", "in.fa", "warning: error ahead\n", warn)
	assert.Error(t, err)
	assert.Len(t, warnings, 1)
}
