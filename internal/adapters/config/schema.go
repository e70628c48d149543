package config

// File represents the structure of the apilevel.yaml configuration file.
type File struct {
	ClientID       string `yaml:"clientId"`
	Descriptor     string `yaml:"descriptor"`
	Platform       string `yaml:"platform"`
	CacheDir       string `yaml:"cacheDir"`
	CreateCacheDir *bool  `yaml:"createCacheDir"`
}
