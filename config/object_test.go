package config_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xalexb/hjarta-conf/config"
	"github.com/0xalexb/hjarta-conf/config/binding"
	yamlcodec "github.com/0xalexb/hjarta-conf/config/codec/yaml"
	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"
	filestore "github.com/0xalexb/hjarta-conf/config/store/file"
	"github.com/0xalexb/hjarta-conf/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyContent = `active: value
legacy: old-value
section:
  active_in_section: value
  legacy_in_section: old-value
legacy_section:
  key: value
map:
  entry1: value1
  entry2: value2
`

type memoryStore struct {
	data       []byte
	fetchErr   error
	persistErr error
	persisted  int
}

func (m *memoryStore) Fetch() ([]byte, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	return m.data, nil
}

func (m *memoryStore) Persist(data []byte) error {
	if m.persistErr != nil {
		return m.persistErr
	}

	m.data = data
	m.persisted++

	return nil
}

func newObject(t *testing.T, content string) (*config.Object, *memoryStore) {
	t.Helper()

	store := &memoryStore{data: []byte(content)}

	obj, err := config.New(yamlcodec.NewCodec(), store)
	require.NoError(t, err)

	return obj, store
}

func TestObject_PruneRedundant_LegacyFile(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(legacyContent), 0o600))

	store, err := filestore.NewStore(configFile)()
	require.NoError(t, err)

	obj, err := config.New(yamlcodec.NewCodec(), store)
	require.NoError(t, err)

	active := config.MustDeclare(obj, "active", "default")
	activeInSection := config.MustDeclare(obj, "section.active_in_section", "default")
	myMap := config.MustDeclare(obj, "map", map[string]string{"default": "value"})

	require.NoError(t, obj.Reload())

	obj.PruneRedundant()
	require.NoError(t, obj.Save())

	raw, err := os.ReadFile(configFile)
	require.NoError(t, err)

	content := string(raw)

	assert.Contains(t, content, "active: value", "Active key should be preserved")
	assert.Contains(t, content, "active_in_section: value", "Active key in section should be preserved")
	assert.Contains(t, content, "section:", "Section containing active key should be preserved")
	assert.Contains(t, content, "map:", "Map section should be preserved")
	assert.Contains(t, content, "entry1: value1", "Map entries should be preserved")
	assert.Contains(t, content, "entry2: value2", "Map entries should be preserved")

	assert.NotContains(t, content, "legacy: old-value", "Legacy key should be removed")
	assert.NotContains(t, content, "legacy_in_section: old-value", "Legacy key in section should be removed")
	assert.NotContains(t, content, "legacy_section:", "Legacy section should be removed")

	assert.Equal(t, "value", active.Read())
	assert.Equal(t, "value", activeInSection.Read())
	assert.Equal(t, map[string]string{"entry1": "value1", "entry2": "value2"}, myMap.Read())
}

func TestObject_PruneRedundant_Idempotent(t *testing.T) {
	t.Parallel()

	obj, _ := newObject(t, legacyContent)

	config.MustDeclare(obj, "active", "default")
	config.MustDeclare(obj, "section.active_in_section", "default")
	config.MustDeclare(obj, "map", map[string]string{})

	obj.PruneRedundant()
	once := obj.Document().Clone()

	obj.PruneRedundant()

	assert.True(t, once.Equal(obj.Document()))
	assert.Empty(t, obj.RedundantKeys())
}

func TestObject_PruneRedundant_LogsRemovedKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.LoggerConfig{Level: "INFO"}, &buf)

	obj, err := config.New(yamlcodec.NewCodec(), &memoryStore{data: []byte("active: 1\nlegacy: 2\n")},
		config.WithLogger(logger))
	require.NoError(t, err)

	config.MustDeclare(obj, "active", 0)

	obj.PruneRedundant()

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "redundant key removed", entry["msg"])
	assert.Equal(t, "legacy", entry["path"])
}

func TestObject_RedundantKeys_DoesNotMutate(t *testing.T) {
	t.Parallel()

	obj, _ := newObject(t, legacyContent)

	config.MustDeclare(obj, "active", "default")

	before := obj.Document().Clone()

	var got []string
	for _, path := range obj.RedundantKeys() {
		got = append(got, path.String())
	}

	assert.Equal(t, []string{"legacy", "section", "legacy_section", "map"}, got)
	assert.True(t, before.Equal(obj.Document()))
}

func TestObject_DeclaringAfterPruneFindsKeyGone(t *testing.T) {
	t.Parallel()

	obj, _ := newObject(t, "active: value\nfeature:\n  enabled: true\n")

	config.MustDeclare(obj, "active", "default")

	obj.PruneRedundant()

	late := config.MustDeclare(obj, "feature.enabled", false)

	assert.False(t, late.Read(), "a binding declared after pruning lost its stored value")

	_, found := obj.Document().Get(keypath.MustParse("feature"))
	assert.False(t, found)
}

func TestObject_Reload_KeepsBindings(t *testing.T) {
	t.Parallel()

	obj, store := newObject(t, "server:\n  port: 8080\n")

	port := config.MustDeclare(obj, "server.port", 25565)
	require.Equal(t, 8080, port.Read())

	store.data = []byte("server:\n  port: 9090\n")
	require.NoError(t, obj.Reload())

	assert.Equal(t, 9090, port.Read())
	assert.Len(t, obj.Bindings(), 1)
}

func TestObject_Reload_ErrorKeepsDocument(t *testing.T) {
	t.Parallel()

	obj, store := newObject(t, "active: value\n")
	active := config.MustDeclare(obj, "active", "default")

	store.data = []byte("invalid: yaml: content: [\n")
	err := obj.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing error")
	assert.Equal(t, "value", active.Read())

	fetchErr := errors.New("disk on fire")
	store.fetchErr = fetchErr
	err = obj.Reload()
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, "value", active.Read())
}

func TestObject_Save_PersistError(t *testing.T) {
	t.Parallel()

	obj, store := newObject(t, "active: value\n")

	persistErr := errors.New("read-only filesystem")
	store.persistErr = persistErr

	err := obj.Save()
	require.ErrorIs(t, err, persistErr)
}

func TestObject_WithoutStore(t *testing.T) {
	t.Parallel()

	obj, err := config.New(yamlcodec.NewCodec(), nil)
	require.NoError(t, err)

	assert.True(t, document.IsEmptyMapping(obj.Document().Root()))
	require.ErrorIs(t, obj.Reload(), config.ErrNoStore)
	require.ErrorIs(t, obj.Save(), config.ErrNoStore)
}

func TestObject_WithDocument(t *testing.T) {
	t.Parallel()

	doc := document.New()
	require.NoError(t, doc.Set(keypath.MustParse("name"), document.NewScalar("preset")))

	obj, err := config.New(yamlcodec.NewCodec(), nil, config.WithDocument(doc))
	require.NoError(t, err)

	name := config.MustDeclare(obj, "name", "default")
	assert.Equal(t, "preset", name.Read())
}

func TestNew_NilCodec(t *testing.T) {
	t.Parallel()

	_, err := config.New(nil, nil)

	require.ErrorIs(t, err, config.ErrNilCodec)
}

func TestNew_LoadError(t *testing.T) {
	t.Parallel()

	_, err := config.New(yamlcodec.NewCodec(), &memoryStore{data: []byte("- not\n- a mapping\n")})

	require.ErrorIs(t, err, document.ErrRootNotMapping)
}

func TestObject_ApplyDefaults(t *testing.T) {
	t.Parallel()

	obj, store := newObject(t, "server:\n  port: 8080\nblocked: scalar\n")

	config.MustDeclare(obj, "server.port", 25565)
	config.MustDeclare(obj, "server.host", "localhost")
	config.MustDeclare(obj, "motd", "A server")
	config.MustDeclare(obj, "worlds", []string{"world", "nether"})
	config.MustDeclare(obj, "blocked.child", "unreachable")

	written := obj.ApplyDefaults()

	assert.Equal(t, 3, written)
	assert.Equal(t, 0, obj.ApplyDefaults(), "second call finds every reachable key present")

	require.NoError(t, obj.Save())

	content := string(store.data)
	assert.Contains(t, content, "port: 8080")
	assert.Contains(t, content, "host: localhost")
	assert.Contains(t, content, "motd: A server")
	assert.Contains(t, content, "- nether")
	assert.Less(t, strings.Index(content, "port:"), strings.Index(content, "host:"), "existing keys stay first")
}

func TestObject_DeclaredPaths(t *testing.T) {
	t.Parallel()

	obj, _ := newObject(t, "")

	config.MustDeclare(obj, "b", 1)
	config.MustDeclare(obj, "a.c", 2)

	paths := obj.DeclaredPaths()

	require.Len(t, paths, 2)
	assert.Equal(t, "b", paths[0].String())
	assert.Equal(t, "a.c", paths[1].String())
}

func TestDeclare_Errors(t *testing.T) {
	t.Parallel()

	obj, _ := newObject(t, "")

	_, err := config.Declare(obj, "", "x")
	require.ErrorIs(t, err, keypath.ErrMalformedPath)

	_, err = config.Declare(obj, "a..b", "x")
	require.ErrorIs(t, err, keypath.ErrMalformedPath)

	_, err = config.Declare(obj, "active", "x")
	require.NoError(t, err)

	_, err = config.Declare(obj, "active", 1)
	require.ErrorIs(t, err, binding.ErrDuplicateBinding)

	assert.Panics(t, func() { config.MustDeclare(obj, "active", "again") })
}
