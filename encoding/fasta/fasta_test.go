package fasta_test

import (
	"bytes"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/snpstruct/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

var fastaData string

func init() {
	fastaData = ">var1 hairpin G20C\n" + "ACGUA\nCGUAC\nGU\n" + "\n" + ">var2\r\n" + "ACGU\r\n" + "ACGU\r\n"
}

func TestReadRecords(t *testing.T) {
	recs, err := fasta.ReadRecords(strings.NewReader(fastaData))
	assert.NoError(t, err)
	assert.EQ(t, recs, []fasta.Record{
		{ID: "var1", Description: "var1 hairpin G20C", Seq: "ACGUACGUACGU"},
		{ID: "var2", Description: "var2", Seq: "ACGUACGU"},
	})
}

func TestReadRecordsEmpty(t *testing.T) {
	recs, err := fasta.ReadRecords(strings.NewReader(""))
	assert.NoError(t, err)
	assert.EQ(t, len(recs), 0)
}

func TestReadRecordsMalformed(t *testing.T) {
	_, err := fasta.ReadRecords(strings.NewReader("ACGU\n>var1\nACGU\n"))
	assert.Regexp(t, err, "before the first header")

	_, err = fasta.ReadRecords(strings.NewReader(">\nACGU\n"))
	assert.Regexp(t, err, "empty header")
}

func TestWriteRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := fasta.Record{ID: "var1", Description: "var1 hairpin G20C", Seq: "ACGU"}
	assert.NoError(t, fasta.WriteRecord(&buf, rec))
	assert.EQ(t, buf.String(), ">var1 hairpin G20C\nACGU\n")

	// Round trip.
	recs, err := fasta.ReadRecords(&buf)
	assert.NoError(t, err)
	assert.EQ(t, recs, []fasta.Record{rec})
}

func TestLoad(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	plainPath := filepath.Join(tmpdir, "in.fa")
	out, err := file.Create(ctx, plainPath)
	assert.NoError(t, err)
	_, err = out.Writer(ctx).Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, out.Close(ctx))

	gzPath := filepath.Join(tmpdir, "in.fa.gz")
	out, err = file.Create(ctx, gzPath)
	assert.NoError(t, err)
	gz := gzip.NewWriter(out.Writer(ctx))
	_, err = gz.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, out.Close(ctx))

	plain, err := fasta.Load(ctx, plainPath)
	assert.NoError(t, err)
	assert.EQ(t, len(plain), 2)
	compressed, err := fasta.Load(ctx, gzPath)
	assert.NoError(t, err)
	assert.EQ(t, compressed, plain)

	_, err = fasta.Load(ctx, filepath.Join(tmpdir, "missing.fa"))
	assert.Regexp(t, err, "missing.fa")
}

var pathFlag = flag.String("path", "", "FASTA file used by benchmarks")

func BenchmarkLoad(b *testing.B) {
	if *pathFlag == "" {
		b.Skip("--path not set")
	}
	ctx := vcontext.Background()
	for i := 0; i < b.N; i++ {
		_, err := fasta.Load(ctx, *pathFlag)
		assert.NoError(b, err)
	}
}
