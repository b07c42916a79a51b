package config

import "github.com/teranos/schemats/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	outputs := make(map[string]int, len(c.Targets))
	for i, t := range c.Targets {
		label := t.Name
		if label == "" {
			label = t.Output
		}

		if len(t.Inputs) == 0 {
			return errors.WithHint(
				errors.Newf("targets[%d] (%s) has no inputs", i, label),
				"list descriptor files with inputs = [\"models.json\"]")
		}
		if t.Output == "" {
			return errors.Newf("targets[%d] (%s) has no output path", i, label)
		}
		if prev, dup := outputs[t.Output]; dup {
			return errors.Newf("targets[%d] and targets[%d] both write %s", prev, i, t.Output)
		}
		outputs[t.Output] = i

		if _, err := t.RenameMap(); err != nil {
			return errors.Wrapf(err, "targets[%d] (%s)", i, label)
		}
	}
	return nil
}
