package invocation

import (
	"reflect"
	"testing"
)

func TestJavaBase(t *testing.T) {
	inv := Java("", "/tmp/selenium-server.jar")
	if inv.Path != "java" {
		t.Fatalf("path=%q", inv.Path)
	}
	want := []string{"-jar", "/tmp/selenium-server.jar"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("args=%v want %v", inv.Args, want)
	}
}

func TestBuildFlattensOptions(t *testing.T) {
	base := Java("/usr/bin/java", "s.jar")
	inv := Build(base,
		map[string]string{"port": "4444", "role": "hub"},
		map[string]string{"webdriver.chrome.driver": "/bin/cd", "a.b": "c"},
	)
	want := []string{"-jar", "s.jar", "-port", "4444", "-role", "hub", "-Da.b=c", "-Dwebdriver.chrome.driver=/bin/cd"}
	if !reflect.DeepEqual(inv.Args, want) {
		t.Fatalf("args=%v\nwant %v", inv.Args, want)
	}
	if got := inv.String(); got != "/usr/bin/java -jar s.jar -port 4444 -role hub -Da.b=c -Dwebdriver.chrome.driver=/bin/cd" {
		t.Fatalf("string=%q", got)
	}
	// base untouched
	if len(base.Args) != 2 {
		t.Fatalf("base mutated: %v", base.Args)
	}
}

func TestBuildDeterministic(t *testing.T) {
	flags := map[string]string{"z": "1", "y": "2", "x": "3", "w": "4"}
	first := Build(Java("java", "j"), flags, nil)
	for i := 0; i < 20; i++ {
		if got := Build(Java("java", "j"), flags, nil); !reflect.DeepEqual(got.Args, first.Args) {
			t.Fatalf("non-deterministic args: %v vs %v", got.Args, first.Args)
		}
	}
}

func TestBuildEmptyMaps(t *testing.T) {
	inv := Build(Java("java", "j"), nil, nil)
	if !reflect.DeepEqual(inv.Tokens(), []string{"java", "-jar", "j"}) {
		t.Fatalf("tokens=%v", inv.Tokens())
	}
}

func TestWithEnv(t *testing.T) {
	inv := Java("java", "j").WithEnv(map[string]string{"DISPLAY": ":99", "A": "1"})
	if !reflect.DeepEqual(inv.Env, []string{"A=1", "DISPLAY=:99"}) {
		t.Fatalf("env=%v", inv.Env)
	}
}
