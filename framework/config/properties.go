package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// propertiesCodec reads and writes flat key=value files, nesting dotted keys:
// "app.port=8000" becomes {"app": {"port": "8000"}}.
type propertiesCodec struct{}

var _ viper.Codec = propertiesCodec{}

func (propertiesCodec) Decode(b []byte, v map[string]any) error {
	flat, err := godotenv.UnmarshalBytes(b)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.Split(key, ".")
		m := v
		for i, p := range parts[:len(parts)-1] {
			switch next := m[p].(type) {
			case nil:
				sub := make(map[string]any)
				m[p] = sub
				m = sub
			case map[string]any:
				m = next
			default:
				return fmt.Errorf("properties: %q is both a value and a section", strings.Join(parts[:i+1], "."))
			}
		}
		leaf := parts[len(parts)-1]
		if _, ok := m[leaf].(map[string]any); ok {
			return fmt.Errorf("properties: %q is both a value and a section", key)
		}
		m[leaf] = flat[key]
	}
	return nil
}

func (propertiesCodec) Encode(v map[string]any) ([]byte, error) {
	flat := make(map[string]string)
	flatten("", v, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, flat[k])
	}
	return []byte(b.String()), nil
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, val := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(k, sub, out)
			continue
		}
		out[k] = fmt.Sprint(val)
	}
}

func codecs() viper.CodecRegistry {
	r := viper.NewCodecRegistry()
	_ = r.RegisterCodec("properties", propertiesCodec{})
	return r
}
