package idgen

import "testing"

func TestInitFromEnv(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "7")
	InitFromEnv()
	if New() == 0 {
		t.Fatal("default node not usable after env init")
	}
}

func TestInitFromEnvDefaultsWhenUnset(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "")
	InitFromEnv()
	if New() == 0 {
		t.Fatal("default node not usable after fallback init")
	}
}
