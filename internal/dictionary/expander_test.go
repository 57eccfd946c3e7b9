package dictionary

import (
	"reflect"
	"testing"
)

func TestExpandLineBasic(t *testing.T) {
	cfg := Config{}
	got := expandLine("/admin", cfg)
	want := []string{"admin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLine(/admin) = %v, want %v", got, want)
	}
}

func TestExpandLineBlankAndComment(t *testing.T) {
	cfg := Config{}
	for _, raw := range []string{"", "   ", "# comment"} {
		if got := expandLine(raw, cfg); got != nil {
			t.Errorf("expandLine(%q) = %v, want nil", raw, got)
		}
	}
}

func TestExpandLineExtensionTagStopsFurtherExpansion(t *testing.T) {
	cfg := Config{
		Extensions:      []string{"php", "html"},
		ForceExtensions: true,
	}
	got := expandLine("backup.%EXT%", cfg)
	want := []string{"backup.php", "backup.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLine with %%EXT%% = %v, want %v", got, want)
	}
}

func TestExpandLineExcludeExtensions(t *testing.T) {
	cfg := Config{ExcludeExtensions: []string{".bak"}}
	if got := expandLine("notes.bak", cfg); got != nil {
		t.Errorf("expected exclusion, got %v", got)
	}
}

func TestExpandLineForceExtensions(t *testing.T) {
	cfg := Config{Extensions: []string{"php", "html"}, ForceExtensions: true}
	got := expandLine("admin", cfg)
	want := []string{"admin", "admin/", "admin.php", "admin.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLine force = %v, want %v", got, want)
	}
}

func TestExpandLineOverwriteExtensions(t *testing.T) {
	cfg := Config{Extensions: []string{"php"}, OverwriteExtensions: true}
	got := expandLine("index.asp", cfg)
	want := []string{"index.asp", "index.php"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLine overwrite = %v, want %v", got, want)
	}
}

func TestExpandLineOverwriteExtensionsSkipsHTML(t *testing.T) {
	cfg := Config{Extensions: []string{"php"}, OverwriteExtensions: true}
	got := expandLine("page.html", cfg)
	want := []string{"page.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLine overwrite html = %v, want %v", got, want)
	}
}

func TestExpandLineCasePrecedence(t *testing.T) {
	cfg := Config{Lowercase: true, Uppercase: true}
	got := expandLine("Admin", cfg)
	want := []string{"admin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lowercase should win over uppercase: got %v want %v", got, want)
	}
}

func TestExpandLineCapitalizeSegments(t *testing.T) {
	cfg := Config{Capitalization: true}
	got := expandLine("admin/users", cfg)
	want := []string{"Admin/Users"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("capitalize = %v, want %v", got, want)
	}
}

func TestExpandLineBlacklistSkipsExtensionLogic(t *testing.T) {
	cfg := Config{Extensions: []string{"php"}, ForceExtensions: true, IsBlacklist: true}
	got := expandLine("admin", cfg)
	want := []string{"admin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blacklist line = %v, want %v", got, want)
	}
}
