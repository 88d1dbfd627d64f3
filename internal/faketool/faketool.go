// Package faketool writes stand-in executables for RNAsnp and remuRNA.  The
// fakes accept the same command lines as the real tools and print reports
// whose cells depend only on the SNP tag and window, which keeps split and
// unsplit runs comparable.  Each fake records its arguments in
// <dir>/<tool>.args and its staged input in <dir>/<tool>.input.
package faketool

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"v.io/x/lib/gosh"
	"v.io/x/lib/lookpath"
)

// Opts injects shell snippets around the report.
type Opts struct {
	// Pre runs after argument parsing, before the report is printed.
	Pre string
	// Post runs after the report is printed.
	Post string
}

const rnasnpScript = `#!/bin/sh
dir=$(dirname "$0")
echo "$@" > "$dir/rnasnp.args"
w=200
while [ $# -gt 0 ]; do
  case "$1" in
    -f) fa="$2"; shift 2 ;;
    -s) snps="$2"; shift 2 ;;
    -w) w="$2"; shift 2 ;;
    *) shift ;;
  esac
done
cat "$snps" > "$dir/rnasnp.input"
[ -f "$fa" ] || { echo "cannot open $fa" >&2; exit 1; }
#PRE
printf 'SNP\tw\tSlen\tGC\tinterval\td_max\tp-value\tinterval\tr_min\tp-value\n'
while read -r tag || [ -n "$tag" ]; do
  [ -n "$tag" ] && printf '%s\t%s\t12\t0.5\t1-12\t0.1\t0.2\t1-12\t0.3\t0.4\n' "$tag" "$w"
done < "$snps"
#POST
exit 0
`

const remurnaScript = `#!/bin/sh
dir=$(dirname "$0")
echo "$@" > "$dir/remurna.args"
in="$1"
cp "$in" "$dir/remurna.input"
tag=$(grep '^\*' "$in" | head -n 1 | cut -c2-)
#PRE
printf 'SNP\tMFE(wt)\tMFE(mu)\tdMFE\tH(wt||mu)\tGCratio\n'
printf '%s\t-10.2\t-9.7\t0.5\t0.12\t0.5\n' "$tag"
#POST
exit 0
`

// Dir returns a fresh directory for fakes, owned by sh.  It skips the test if
// no POSIX shell is available.
func Dir(t *testing.T, sh *gosh.Shell) string {
	if _, err := lookpath.Look(sh.Vars, "sh"); err != nil {
		t.Skipf("sh not found: %v", err)
	}
	return sh.MakeTempDir()
}

// RNAsnp writes a fake RNAsnp executable into dir and returns its path.
func RNAsnp(t testing.TB, dir string, opts Opts) string {
	return write(t, dir, "RNAsnp", rnasnpScript, opts)
}

// RemuRNA writes a fake remuRNA executable into dir and returns its path.
func RemuRNA(t testing.TB, dir string, opts Opts) string {
	return write(t, dir, "remuRNA", remurnaScript, opts)
}

// Args returns the arguments of the last run of the named fake ("rnasnp" or
// "remurna").
func Args(t testing.TB, dir, name string) string {
	return read(t, filepath.Join(dir, name+".args"))
}

// Input returns the staged input seen by the last run of the named fake.
func Input(t testing.TB, dir, name string) string {
	return read(t, filepath.Join(dir, name+".input"))
}

func write(t testing.TB, dir, name, script string, opts Opts) string {
	script = strings.Replace(script, "#PRE", opts.Pre, 1)
	script = strings.Replace(script, "#POST", opts.Post, 1)
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(script), 0755))
	return path
}

func read(t testing.TB, path string) string {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
