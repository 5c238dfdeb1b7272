package pipeline

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// BundleSpec maps a target path to the ordered list of source files that
// get minified and concatenated into it. Source order is significant;
// target order is not.
type BundleSpec map[string][]string

// LoadBundleSpec reads a bundle mapping from a YAML file. Anything that
// isn't a flat target -> source list mapping is rejected before any build
// step runs.
func LoadBundleSpec(path string) (BundleSpec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read bundle config %s", path)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var spec BundleSpec
	err = decoder.Decode(&spec)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse bundle config %s", path)
	}

	for target, sources := range spec {
		if target == "" {
			return nil, eris.Errorf("bundle config %s contains an empty target path", path)
		}

		for _, source := range sources {
			if source == "" {
				return nil, eris.Errorf("bundle config %s lists an empty source for target %s", path, target)
			}
		}
	}

	return spec, nil
}
