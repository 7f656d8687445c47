package cli

import (
	"os"
	"testing"
)

// changeWorkingDirectory mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func changeWorkingDirectory(testInstance *testing.T, directory string) {
	testInstance.Helper()
	previousDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		testInstance.Fatal(getwdError)
	}
	if chdirError := os.Chdir(directory); chdirError != nil {
		testInstance.Fatal(chdirError)
	}
	testInstance.Cleanup(func() {
		if restoreError := os.Chdir(previousDirectory); restoreError != nil {
			testInstance.Fatal(restoreError)
		}
	})
}
