package report

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/pos"
	"github.com/phobologic/wordstat/internal/query"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func createCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "users.py", `class UserStore:
    def __init__(self):
        self.users = {}

    def get_user_name(self, user_id):
        user_name = self.users[user_id]
        return user_name

    def set_value(self, value):
        result_value = value
        return result_value
`)
	writeFile(t, dir, "api.py", `def get_user_name(request):
    fetch_data = request.load()
    return fetch_data
`)
	writeFile(t, dir, "broken.py", "def nope(:\n")
	return dir
}

func newGenerator(t *testing.T, dir string) *Generator {
	t.Helper()
	classifier, err := pos.Bootstrap(pos.Options{CacheSize: 64})
	require.NoError(t, err)
	g, err := NewGenerator(context.Background(), FromLocator(dir), Options{Classifier: classifier})
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func TestGenerateFunctionNames(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, createCorpus(t))
	var buf bytes.Buffer
	err := g.Generate(context.Background(), &buf, Request{
		Format:  model.FormatConsole,
		Query:   query.Query{Kind: model.SampleFunc},
		TopSize: 10,
	})
	require.NoError(t, err)
	// api.py sorts before users.py, so its definition is seen first
	assert.Equal(t, "total 3 words, 2 unique\nget_user_name 2\nset_value 1\n", buf.String())

	require.Len(t, g.Failures(), 1)
	assert.Equal(t, "broken.py", g.Failures()[0].Path)
}

func TestGenerateVerbsJSON(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, createCorpus(t))
	var buf bytes.Buffer
	err := g.Generate(context.Background(), &buf, Request{
		Format:  model.FormatJSON,
		Query:   query.Query{Kind: model.SampleFunc, Tag: pos.Verb},
		TopSize: 10,
	})
	require.NoError(t, err)

	r, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, model.Summary{Total: 3, Unique: 2}, r.Summary)
	assert.Equal(t, model.FrequencyTable{{Word: "get", Count: 2}, {Word: "set", Count: 1}}, r.Statistics)
}

func TestGenerateLocalNouns(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, createCorpus(t))
	r, err := g.Report(context.Background(), Request{
		Query:   query.Query{Kind: model.SampleName, Tag: pos.Noun, LocalsOnly: true},
		TopSize: 10,
	})
	require.NoError(t, err)
	// locals: fetch_data, user_name, result_value
	assert.Equal(t, model.FrequencyTable{
		{Word: "data", Count: 1},
		{Word: "user", Count: 1},
		{Word: "name", Count: 1},
		{Word: "result", Count: 1},
		{Word: "value", Count: 1},
	}, r.Statistics)
	assert.Equal(t, 5, r.Summary.Total)
}

func TestGenerateTopZeroKeepsSummary(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, createCorpus(t))
	r, err := g.Report(context.Background(), Request{Query: query.Query{Kind: model.SampleFunc}, TopSize: 0})
	require.NoError(t, err)
	assert.Empty(t, r.Statistics)
	assert.Equal(t, model.Summary{Total: 3, Unique: 2}, r.Summary)
}

func TestGenerateUnsupported(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, createCorpus(t))
	var buf bytes.Buffer
	req := Request{Format: model.FormatUnsupported, Query: query.Query{Kind: model.SampleFunc}, TopSize: 10}
	require.NoError(t, g.Generate(context.Background(), &buf, req))
	assert.Empty(t, buf.String())

	req.Strict = true
	assert.ErrorIs(t, g.Generate(context.Background(), &buf, req), ErrUnsupportedFormat)

	req = Request{Format: model.FormatConsole, TopSize: 10}
	require.NoError(t, g.Generate(context.Background(), &buf, req))
	assert.Equal(t, "total 0 words, 0 unique\n", buf.String())

	req.Strict = true
	assert.Error(t, g.Generate(context.Background(), &buf, req))
}

type fixedNodes []model.Node

func (f fixedNodes) Nodes(context.Context) (iter.Seq[model.Node], error) {
	return slices.Values([]model.Node(f)), nil
}

func TestGeneratorFromSampler(t *testing.T) {
	t.Parallel()

	nodes := fixedNodes{
		{Kind: model.FunctionDefinition, Name: "get_user_name"},
		{Kind: model.FunctionDefinition, Name: "get_user_name"},
		{Kind: model.FunctionDefinition, Name: "set_value"},
	}
	g, err := NewGenerator(context.Background(), FromSampler(query.NewSampler(nodes, pos.ClassifierFunc(func(string) pos.Tag { return pos.None }), nil)), Options{})
	require.NoError(t, err)
	defer g.Close()

	var buf bytes.Buffer
	require.NoError(t, g.Generate(context.Background(), &buf, Request{
		Format:  model.FormatCSV,
		Query:   query.Query{Kind: model.SampleFunc},
		TopSize: 10,
	}))
	assert.Equal(t, "get_user_name,2\r\nset_value,1\r\n", buf.String())
	assert.Empty(t, g.Failures())
}

func TestNewGeneratorRequiresClassifier(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(context.Background(), FromLocator(t.TempDir()), Options{})
	assert.Error(t, err)
}
