// Package container drives an external container runtime (the docker CLI) to
// build a test image, run the test suite inside a container and collect the
// result file the container writes to a bind-mounted directory.
package container

import "os"

// Config names everything the runner passes to the container runtime.
// It is immutable once handed to NewRunner.
type Config struct {
	// Binary is the container runtime executable
	Binary string
	// ImageName is the tag of the test image
	ImageName string
	// ContainerName is the name of the test container
	ContainerName string
	// NetworkName is the network the test container joins
	NetworkName string
	// ResultsFolder is the host folder, created under the assembly directory
	ResultsFolder string
	// ContainerResultsDir is where ResultsFolder is mounted inside the container
	ContainerResultsDir string
	// ResultPathOption is the run setting telling the contained process where to write results
	ResultPathOption string
	// EnvVar and EnvValue signal that the process runs inside the test container
	EnvVar   string
	EnvValue string
}

// DefaultConfig returns the names used by husky test images
func DefaultConfig() Config {
	return Config{
		Binary:              "docker",
		ImageName:           "husky-test-image",
		ContainerName:       "husky-test-runner",
		NetworkName:         "husky-test-network",
		ResultsFolder:       "husky_test_results",
		ContainerResultsDir: "/husky_test_results",
		ResultPathOption:    "Husky.TestOutputXml",
		EnvVar:              "HUSKY_RUNNING_IN_CONTAINER",
		EnvValue:            "true",
	}
}

// InContainer reports whether the environment marks this process as running
// inside the isolated test container. A nil getenv uses os.Getenv.
func (c Config) InContainer(getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv(c.EnvVar) == c.EnvValue
}
