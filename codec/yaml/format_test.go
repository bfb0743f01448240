package yaml_test

import (
	"testing"

	"github.com/tansu-go/tansu/codec/yaml"
	"github.com/tansu-go/tansu/ttest"
)

func TestFormatCompliance(t *testing.T) {
	ttest.NewFormatTester(t, yaml.New()).TestAll()
}

func TestName(t *testing.T) {
	if got := yaml.New().Name(); got != "yaml" {
		t.Errorf("Name() = %q, want %q", got, "yaml")
	}
}
