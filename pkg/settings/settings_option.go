package settings

type Option func(*Settings)

// WithProperties sets the explicitly provided properties (command line, environment,
// config file). They take precedence over stored values.
func WithProperties(properties map[string]string) Option {
	return func(s *Settings) {
		for k, v := range properties {
			s.properties[k] = v
		}
	}
}
