package emailcheck

import (
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const disposableImport = "github.com/disposable/disposable"

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("jane@gmail.com"))
	assert.ErrorIs(t, Check("jane+news@gmail.com"), ErrAlias)
	assert.ErrorIs(t, Check("jane"), ErrMalformed)
	assert.ErrorIs(t, Check("jane@"), ErrMalformed)
	assert.ErrorIs(t, Check("jane@mailinator.com"), ErrDisposable)
	assert.ErrorIs(t, Check("jane@Mailinator.COM"), ErrDisposable)
}

// The server runs from the repository root and the disposable package reads
// domains.txt from there before main starts.
func TestDomainsFileShippedAtRoot(t *testing.T) {
	info, err := os.Stat(filepath.Join("..", "..", "domains.txt"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// Any other package importing emailcheck (or disposable) would panic in its
// own tests, since its directory has no domains.txt.
func TestOnlyMainImportsEmailCheck(t *testing.T) {
	root := filepath.Join("..", "..")
	self := "github.com/Romain-GUILLEMOT/TubeBack/utils/emailcheck"

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." || dir == "utils/emailcheck" {
			return nil
		}

		f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			assert.NotEqual(t, disposableImport, p, rel)
			assert.NotEqual(t, self, p, rel)
		}
		return nil
	})
	require.NoError(t, err)
}
