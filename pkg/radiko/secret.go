package radiko

// Secret is a string that redacts itself in any human-readable rendering.
// Auth tokens and passwords are carried as Secrets so they cannot leak
// through logs, %v formatting, or marshalled config; the underlying value
// is available only through Reveal.
type Secret string

const redacted = "[redacted]"

// Reveal returns the underlying sensitive value.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return redacted }

// Set implements flag.Value so a Secret can be supplied on the command line.
func (s *Secret) Set(v string) error {
	*s = Secret(v)
	return nil
}

// MarshalJSON always renders the redaction marker.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalYAML always renders the redaction marker.
func (s Secret) MarshalYAML() (interface{}, error) {
	return redacted, nil
}

// UnmarshalYAML accepts the plain string from a config file.
func (s *Secret) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v string
	if err := unmarshal(&v); err != nil {
		return err
	}
	*s = Secret(v)
	return nil
}
