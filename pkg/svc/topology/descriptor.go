package topology

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"gopkg.in/yaml.v3"
)

const (
	yamlIndent       = 2
	descriptorSuffix = ".yaml"
	userKey          = "user"
)

// ErrNilTopology is returned when rendering a nil topology.
var ErrNilTopology = errors.New("topology is nil")

// unsafeFileChars matches characters dropped from cluster names used in temp file names.
var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// Render builds the descriptor document for topology.
//
// The product key holds the servers list and the global settings, every
// server name is a top-level key holding the per-node settings plus its zone,
// and the optional user key holds the SSH credentials.
func Render(topology *v1alpha1.ClusterTopology, productName string) (map[string]any, error) {
	if topology == nil {
		return nil, ErrNilTopology
	}

	if productName == "" {
		productName = v1alpha1.ProductName
	}

	servers := make([]v1alpha1.NamedServer, 0, len(topology.Nodes))
	document := make(map[string]any, len(topology.Nodes)+2)

	for i, node := range topology.Nodes {
		name := ServerName(i)
		servers = append(servers, v1alpha1.NamedServer{Name: name, IP: node.IP})

		record := maps.Clone(topology.PerNodeSettings)
		if record == nil {
			record = map[string]any{}
		}

		record[zoneKey] = node.Zone
		document[name] = record
	}

	document[productName] = map[string]any{
		"servers": servers,
		"global":  maps.Clone(topology.GlobalSettings),
	}

	if len(topology.UserCredentials) > 0 {
		document[userKey] = maps.Clone(topology.UserCredentials)
	}

	return document, nil
}

// Marshal renders topology and encodes it as YAML.
func Marshal(topology *v1alpha1.ClusterTopology, productName string) ([]byte, error) {
	document, err := Render(topology, productName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	err = encoder.Encode(document)
	if err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return nil, fmt.Errorf("flush descriptor: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteTempFile writes content to a new temporary file named after clusterName.
// The returned cleanup removes the file; callers own its lifetime.
func WriteTempFile(dir, clusterName string, content []byte) (string, func(), error) {
	pattern := "obsail-" + unsafeFileChars.ReplaceAllString(clusterName, "_") + "-*" + descriptorSuffix

	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", func() {}, fmt.Errorf("create descriptor file: %w", err)
	}

	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }

	_, err = file.Write(content)
	if err != nil {
		_ = file.Close()

		cleanup()

		return "", func() {}, fmt.Errorf("write descriptor file %s: %w", path, err)
	}

	err = file.Close()
	if err != nil {
		cleanup()

		return "", func() {}, fmt.Errorf("close descriptor file %s: %w", path, err)
	}

	return filepath.Clean(path), cleanup, nil
}
