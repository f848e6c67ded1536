package config

import "github.com/wardenhq/warden/storage"

// apiConf holds API-related configuration
type apiConf struct {
	Admin adminAPIConf `yaml:"admin"`
}

type adminAPIConf struct {
	Enabled        bool                   `yaml:"enabled"`
	UsersEnabled   bool                   `yaml:"users_enabled"`
	Argon2idParams storage.Argon2idParams `yaml:"password_hashing"`
}

var defaultAPIConf = apiConf{
	Admin: adminAPIConf{
		Enabled:      true,
		UsersEnabled: true,
		Argon2idParams: storage.Argon2idParams{
			Time:        1,
			MemoryKiB:   64 * 1024,
			Parallelism: 4,
			KeyLen:      64,
			SaltLen:     32,
		},
	},
}
