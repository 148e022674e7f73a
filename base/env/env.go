package env

import (
	"os"
)

// PodName is the pod name when running in k8s, the hostname otherwise
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	host, _ := os.Hostname()
	return host
}

// EnvName example: staging
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: marketclient
func AppName() string {
	return os.Getenv("APP_NAME")
}
