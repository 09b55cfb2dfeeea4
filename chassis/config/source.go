package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Source - one layer of configuration
type Source interface {
	Name() string
	Values() (map[string]interface{}, error)
}

type fileSource struct {
	path     string
	required bool
}

// RootFile is a config file that must exist.
func RootFile(path string) Source {
	return &fileSource{path: path, required: true}
}

// LabFile is a config file that is skipped when absent.
func LabFile(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string {
	return s.path
}

func (s *fileSource) Values() (map[string]interface{}, error) {
	buff, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		if s.required {
			return nil, &Error{Kind: MissingRoot, Path: s.path, Err: err}
		}
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, &Error{Kind: Invalid, Path: s.path, Err: err}
	}
	values, err := decodeFile(s.path, buff)
	if err != nil {
		return nil, &Error{Kind: Invalid, Path: s.path, Err: err}
	}
	return values, nil
}

func decodeFile(path string, buff []byte) (map[string]interface{}, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw := map[interface{}]interface{}{}
		if err := yaml.Unmarshal(buff, &raw); err != nil {
			return nil, errors.Wrap(err, "parsing yaml")
		}
		return normalize(raw), nil
	default:
		raw := map[string]interface{}{}
		if _, err := toml.Decode(string(buff), &raw); err != nil {
			return nil, errors.Wrap(err, "parsing toml")
		}
		return lowerKeys(raw), nil
	}
}

// normalize converts yaml.v2 nested maps into string keyed maps.
func normalize(raw map[interface{}]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		name := strings.ToLower(fmt.Sprint(key))
		if nested, ok := value.(map[interface{}]interface{}); ok {
			out[name] = normalize(nested)
			continue
		}
		out[name] = value
	}
	return out
}

func lowerKeys(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		if nested, ok := value.(map[string]interface{}); ok {
			value = lowerKeys(nested)
		}
		out[strings.ToLower(key)] = value
	}
	return out
}

type envSource struct {
	prefix  string
	environ []string
}

// Environment reads PREFIX_SECTION__KEY=value pairs from environ.
func Environment(prefix string, environ []string) Source {
	return &envSource{prefix: prefix, environ: environ}
}

func (s *envSource) Name() string {
	return "env:" + s.prefix
}

func (s *envSource) Values() (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, pair := range s.environ {
		idx := strings.Index(pair, "=")
		if idx < 0 {
			continue
		}
		path, ok := s.keyPath(pair[:idx])
		if !ok {
			continue
		}
		setPath(out, path, pair[idx+1:])
	}
	return out, nil
}

func (s *envSource) keyPath(name string) ([]string, bool) {
	rest := strings.TrimPrefix(name, s.prefix)
	if s.prefix == "" || rest == name {
		return nil, false
	}
	switch {
	case strings.HasPrefix(rest, EnvSeparator):
		rest = rest[len(EnvSeparator):]
	case strings.HasPrefix(rest, "_"):
		rest = rest[1:]
	default:
		return nil, false
	}
	var path []string
	for _, part := range strings.Split(strings.ToLower(rest), EnvSeparator) {
		if part != "" {
			path = append(path, part)
		}
	}
	return path, len(path) > 0
}

func setPath(dst map[string]interface{}, path []string, value string) {
	for _, key := range path[:len(path)-1] {
		next, ok := dst[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			dst[key] = next
		}
		dst = next
	}
	dst[path[len(path)-1]] = value
}
