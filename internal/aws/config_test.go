package aws

import (
	"strings"
	"testing"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in, region, want string
	}{
		{"", "eu-central-1", "https://s3.eu-central-1.wasabisys.com"},
		{"http://s3.wasabisys.com", "eu-central-1", "https://s3.wasabisys.com"},
		{"https://s3.wasabisys.com/", "eu-central-1", "https://s3.wasabisys.com"},
		{"s3.eu-west-1.wasabisys.com", "eu-west-1", "https://s3.eu-west-1.wasabisys.com"},
	}
	for _, c := range cases {
		got := normalizeEndpoint(c.in, c.region)
		if got != c.want {
			t.Errorf("normalizeEndpoint(%q, %q) = %q, want %q", c.in, c.region, got, c.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	for _, want := range []string{"WASABI_KEY", "WASABI_SECRET", "WASABI_BUCKET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}

	cfg = Config{AccessKeyID: "k", SecretAccessKey: "s", Bucket: "b"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
