package common

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/viper"
)

func fileExists(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

func ValidateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

// ValidateServerConfig checks the keys the server cannot start without.
// strict additionally requires referenced files to exist.
func ValidateServerConfig(v *viper.Viper, strict bool) error {
	if sub := v.Sub("server"); sub != nil {
		v = sub
	}
	host := v.GetString("Host")
	if host == "" {
		host = v.GetString("host")
	}
	port := v.GetInt("Port")
	if port == 0 {
		port = v.GetInt("port")
	}
	if err := ValidateAddr(fmt.Sprintf("%s:%d", host, port)); err != nil {
		return fmt.Errorf("listen address: %w", err)
	}
	if v.GetString("auth.secret") == "" {
		return fmt.Errorf("auth.secret missing")
	}
	if strict {
		if p := v.GetString("routing.thresholds_path"); p != "" {
			if err := fileExists(p); err != nil {
				return fmt.Errorf("routing.thresholds_path: %w", err)
			}
		}
		if p := v.GetString("seed.users_path"); p != "" {
			if err := fileExists(p); err != nil {
				return fmt.Errorf("seed.users_path: %w", err)
			}
		}
		if p := v.GetString("rbac.model_path"); p != "" {
			if err := fileExists(p); err != nil {
				return fmt.Errorf("rbac.model_path: %w", err)
			}
		}
		if p := v.GetString("rbac.policy_path"); p != "" {
			if err := fileExists(p); err != nil {
				return fmt.Errorf("rbac.policy_path: %w", err)
			}
		}
	}
	return nil
}

// ValidateWorkerConfig checks the usage worker keys.
func ValidateWorkerConfig(v *viper.Viper) error {
	if sub := v.Sub("worker"); sub != nil {
		v = sub
	}
	if v.GetString("redis-url") == "" && v.GetString("redis_url") == "" {
		return fmt.Errorf("redis url missing")
	}
	return nil
}
