// SPDX-License-Identifier: MIT
package build

import "testing"

func TestInitializeDefaults(t *testing.T) {
	Initialize()

	flags := GetBuildFlags()
	if flags.Name == "" {
		t.Error("expected non-empty build name after Initialize")
	}
	if flags.Version == "" {
		t.Error("expected non-empty build version after Initialize")
	}
}

func TestInitializeOverrides(t *testing.T) {
	buildName = "sigviz-test"
	buildVersion = "1.2.3"
	defer func() {
		buildName = ""
		buildVersion = ""
	}()

	Initialize()

	flags := GetBuildFlags()
	if flags.Name != "sigviz-test" {
		t.Errorf("expected build name 'sigviz-test', got %q", flags.Name)
	}
	if flags.Version != "1.2.3" {
		t.Errorf("expected build version '1.2.3', got %q", flags.Version)
	}
}
