package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/internal/config"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
	"github.com/Grant-Giesbrecht/graf/pkg/observability"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

// setupEnv isolates config and store in temp dirs.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, env := range []string{
		"GRAF_FORMAT", "GRAF_SQLITE_PATH", "GRAF_REDIS_ADDR", "GRAF_REDIS_PASSWORD",
		"GRAF_REDIS_DB", "GRAF_MONGO_URI", "GRAF_FONT_TABLE", "GRAF_SERVER_ADDR",
	} {
		t.Setenv(env, "")
	}
	t.Setenv("GRAF_STORE", config.BackendFile)
	t.Setenv("GRAF_STORE_DIR", filepath.Join(dir, "docs"))
	t.Cleanup(func() {
		pack.SetLogger(nil)
		observability.Reset()
	})
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func figure() *graf.Graf {
	g := graf.New()
	g.Supertitle = "Sweep"

	a := graf.NewAxis()
	tr := graf.NewTrace()
	tr.X = []float64{0, 1, 2}
	tr.Y = []float64{1, 2, 3}
	tr.DisplayName = "gain"
	a.AddTrace(tr)
	g.AddAxis(a)

	b := graf.NewAxis()
	b.Position = graf.Cell{0, 1}
	g.AddAxis(b)
	return g
}

func writeFigure(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, io.SaveGraf(path, figure()))
	return path
}

func TestInspect(t *testing.T) {
	dir := setupEnv(t)
	path := writeFigure(t, dir, "sweep.graf")

	out, err := runCLI(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sweep")
	assert.Contains(t, out, "Traces")
	assert.Contains(t, out, "axes.Ax0.traces.Tr0.x_data")

	out, err = runCLI(t, "inspect", "--brief", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 x 2")
	assert.NotContains(t, out, "axes.Ax0")
}

func TestInspectMissingFile(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "inspect", "nope.graf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLayout(t *testing.T) {
	dir := setupEnv(t)
	out, err := runCLI(t, "layout", writeFigure(t, dir, "sweep.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Ax0 Ax1\n"), out)
	assert.Contains(t, out, "Ax1: rows 0-0, cols 1-1")
}

func TestQuery(t *testing.T) {
	dir := setupEnv(t)
	path := writeFigure(t, dir, "sweep.graf")

	out, err := runCLI(t, "query", path, "$.axes.Ax0.traces.Tr0.y_data[1]")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = runCLI(t, "query", path, "$.axes.*.traces.*.display_name")
	require.NoError(t, err)
	assert.Equal(t, "\"gain\"\n", out)

	_, err = runCLI(t, "query", path, "$[")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	dir := setupEnv(t)
	in := writeFigure(t, dir, "sweep.graf")
	out := filepath.Join(dir, "sweep.yml")

	stdout, err := runCLI(t, "convert", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted")

	got, err := io.LoadGraf(out)
	require.NoError(t, err)
	if diff := cmp.Diff(figure().Pack().Generic(), got.Pack().Generic(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("converted figure differs (-want +got):\n%s", diff)
	}

	_, err = runCLI(t, "convert", in, filepath.Join(dir, "sweep.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestTree(t *testing.T) {
	dir := setupEnv(t)
	path := writeFigure(t, dir, "sweep.graf")

	out, err := runCLI(t, "tree", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph G {"))
	assert.Contains(t, out, `"Ax0" -> "Ax0/Tr0"`)

	out, err = runCLI(t, "tree", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"Graf" -> "Axis"`)

	_, err = runCLI(t, "tree")
	assert.Error(t, err)
}

func TestStoreWorkflow(t *testing.T) {
	dir := setupEnv(t)
	path := writeFigure(t, dir, "sweep.graf")

	out, err := runCLI(t, "push", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored sweep")

	_, err = runCLI(t, "push", path, "run2")
	require.NoError(t, err)

	out, err = runCLI(t, "ls")
	require.NoError(t, err)
	require.Contains(t, out, "run2")
	assert.Less(t, strings.Index(out, "run2"), strings.Index(out, "sweep"))

	out, err = runCLI(t, "pull", "sweep", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "supertitle: Sweep")

	pulled := filepath.Join(dir, "pulled.json")
	_, err = runCLI(t, "pull", "sweep", pulled)
	require.NoError(t, err)
	got, err := io.LoadGraf(pulled)
	require.NoError(t, err)
	assert.Equal(t, "Sweep", got.Supertitle)

	out, err = runCLI(t, "rm", "sweep", "run2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed run2")

	out, err = runCLI(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents")
}

func TestPullMissing(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "pull", "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRmMissing(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "rm", "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)

	out, err := runCLI(t, "rm", "-f", "absent")
	require.NoError(t, err)
	assert.Contains(t, out, "absent not found")
}

func TestPushInvalidName(t *testing.T) {
	dir := setupEnv(t)
	_, err := runCLI(t, "push", writeFigure(t, dir, "sweep.graf"), "bad/name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidName))
}

func TestBadConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("GRAF_STORE", "etcd")
	_, err := runCLI(t, "ls")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSetupCommands(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "fonts")
	require.NoError(t, err)
	assert.Contains(t, out, "sanserif")
	assert.Contains(t, out, "Noto Serif")

	out, err = runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `backend = "file"`)

	out, err = runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join("graf", "config.toml")), out)

	out, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: ")

	out, err = runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestOpenBackend(t *testing.T) {
	dir := setupEnv(t)
	ctx := context.Background()

	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Backend = backend
			cfg.Store.Dir = filepath.Join(dir, "files")
			cfg.Store.SQLitePath = filepath.Join(dir, "db", "graf.db")

			st, err := openBackend(ctx, cfg)
			require.NoError(t, err)
			defer st.Close()

			require.NoError(t, st.Put(ctx, "sweep", figure().Pack()))
			_, err = st.Get(ctx, "sweep")
			assert.NoError(t, err)
		})
	}

	cfg := config.Default()
	cfg.Store.Backend = "etcd"
	_, err := openBackend(ctx, cfg)
	assert.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote(config.BackendRedis))
	assert.True(t, isRemote(config.BackendMongo))
	assert.False(t, isRemote(config.BackendFile))
}

func TestInvalidFigureRejected(t *testing.T) {
	dir := setupEnv(t)
	g := figure()
	tr, _ := g.GetTrace(0, 0, 0)
	tr.Y = []float64{1}
	path := filepath.Join(dir, "uneven.graf")
	require.NoError(t, io.SaveGraf(path, g))

	for _, args := range [][]string{
		{"push", path},
		{"convert", path, filepath.Join(dir, "uneven.yaml")},
		{"layout", path},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
			assert.Contains(t, err.Error(), "x_data has 3 points")
		})
	}

	out, err := runCLI(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents")
	assert.NoFileExists(t, filepath.Join(dir, "uneven.yaml"))

	_, err = runCLI(t, "inspect", path)
	assert.NoError(t, err, "inspect still reports on invalid figures")
}

func TestConvertFillsTicksAndColormap(t *testing.T) {
	dir := setupEnv(t)
	g := figure()
	img, _ := g.GetAxis(0, 1)
	img.Kind = graf.AxisImage
	img.AddSurface(graf.NewSurface())
	in := filepath.Join(dir, "raw.graf")
	require.NoError(t, io.SaveGraf(in, g))
	out := filepath.Join(dir, "tidy.yaml")

	_, err := runCLI(t, "convert", "--auto-ticks", "5", "--cmap", "plasma", in, out)
	require.NoError(t, err)

	got, err := io.LoadGraf(out)
	require.NoError(t, err)
	ax, _ := got.GetAxis(0, 0)
	require.NotEmpty(t, ax.X.Ticks)
	assert.LessOrEqual(t, len(ax.X.Ticks), 5)
	assert.Len(t, ax.X.TickLabels, len(ax.X.Ticks))
	assert.Empty(t, ax.YRight.Ticks)

	img, _ = got.GetAxis(0, 1)
	sf, ok := img.Surfaces.Get("Sf0")
	require.True(t, ok)
	require.Len(t, sf.Colormap, graf.DefaultColormapSamples)
	assert.InDelta(t, 0x0d/255.0, sf.Colormap[0][0], 1e-9, "first plasma stop")

	_, err = runCLI(t, "convert", "--cmap", "jet", in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestFontsResolve(t *testing.T) {
	dir := setupEnv(t)
	g := figure()
	g.Style.Supertitle.Bold = true
	g.Style.Title.Family = "Comic"
	g.Style.Graph.UseNative = true
	g.Style.Label.Family = "mono"
	g.Style.Label.Italic = true
	path := filepath.Join(dir, "styled.graf")
	require.NoError(t, io.SaveGraf(path, g))

	out, err := runCLI(t, "fonts", "--resolve", path)
	require.NoError(t, err)

	lines := map[string]string{}
	for _, l := range strings.Split(out, "\n") {
		for _, role := range []string{"supertitle", "title", "graph", "label"} {
			if strings.Contains(l, " "+role+" ") {
				lines[role] = l
			}
		}
	}
	require.Len(t, lines, 4, out)
	assert.Contains(t, lines["supertitle"], "Roboto-Bold.ttf")
	assert.Contains(t, lines["title"], "unresolved")
	assert.Contains(t, lines["graph"], "native")
	assert.Contains(t, lines["label"], "RobotoMono-Regular.ttf")
}
