package topology_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/svc/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRender_NamesServersPositionally(t *testing.T) {
	t.Parallel()

	built, err := topology.Build(twoNodes(), topology.Overrides{})
	require.NoError(t, err)

	document, err := topology.Render(built, "")
	require.NoError(t, err)

	product, ok := document[v1alpha1.ProductName].(map[string]any)
	require.True(t, ok)

	assert.Equal(t, []v1alpha1.NamedServer{
		{Name: "server1", IP: "10.0.0.1"},
		{Name: "server2", IP: "10.0.0.2"},
	}, product["servers"])
	assert.Equal(t, v1alpha1.DefaultGlobalSettings(), product["global"])

	server2, ok := document["server2"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "z2", server2["zone"])
	assert.Equal(t, v1alpha1.DefaultMySQLPort, server2["mysql_port"])
	assert.NotContains(t, document, "user")
}

func TestRender_NodeZoneBeatsPerNodeOverride(t *testing.T) {
	t.Parallel()

	built, err := topology.Build(twoNodes(), topology.Overrides{
		PerNode: map[string]any{"zone": "override"},
	})
	require.NoError(t, err)

	document, err := topology.Render(built, "custom-product")
	require.NoError(t, err)

	assert.Contains(t, document, "custom-product")
	assert.Equal(t, "z1", document["server1"].(map[string]any)["zone"])
	assert.Equal(t, "override", built.PerNodeSettings["zone"])
}

func TestRender_NilTopology(t *testing.T) {
	t.Parallel()

	_, err := topology.Render(nil, "")

	require.ErrorIs(t, err, topology.ErrNilTopology)
}

func TestMarshal_ProducesDeployableYAML(t *testing.T) {
	t.Parallel()

	built, err := topology.Build(
		[]v1alpha1.ServerNode{{IP: "192.168.1.10", Zone: "zone1"}},
		topology.Overrides{User: map[string]any{"username": "root", "port": 22}},
	)
	require.NoError(t, err)

	content, err := topology.Marshal(built, v1alpha1.ProductName)
	require.NoError(t, err)

	var decoded struct {
		Product struct {
			Servers []v1alpha1.NamedServer `yaml:"servers"`
			Global  map[string]any         `yaml:"global"`
		} `yaml:"oceanbase-ce"`
		Server1 map[string]any `yaml:"server1"`
		User    map[string]any `yaml:"user"`
	}

	require.NoError(t, yaml.Unmarshal(content, &decoded))
	require.Len(t, decoded.Product.Servers, 1)
	assert.Equal(t, "server1", decoded.Product.Servers[0].Name)
	assert.Equal(t, "192.168.1.10", decoded.Product.Servers[0].IP)
	assert.Equal(t, "6G", decoded.Product.Global["memory_limit"])
	assert.Equal(t, false, decoded.Product.Global["production_mode"])
	assert.Equal(t, "zone1", decoded.Server1["zone"])
	assert.Equal(t, 2881, decoded.Server1["mysql_port"])
	assert.Equal(t, "root", decoded.User["username"])
}

func TestWriteTempFile_WritesAndCleansUp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path, cleanup, err := topology.WriteTempFile(dir, "my/cluster", []byte("a: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "obsail-my_cluster-"))
	assert.True(t, strings.HasSuffix(path, ".yaml"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(content))

	cleanup()

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteTempFile_MissingDir(t *testing.T) {
	t.Parallel()

	_, cleanup, err := topology.WriteTempFile(filepath.Join(t.TempDir(), "missing"), "c1", nil)

	require.Error(t, err)
	assert.NotPanics(t, cleanup)
}
