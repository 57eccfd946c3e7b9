package dictionary

import "testing"

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestMutateVersionBump(t *testing.T) {
	got := Mutate("v1")
	if !contains(got, "v2") {
		t.Errorf("Mutate(v1) = %v, want to contain v2", got)
	}
}

func TestMutateNumberBump(t *testing.T) {
	got := Mutate("backup2")
	if !contains(got, "backup3") || !contains(got, "backup1") {
		t.Errorf("Mutate(backup2) = %v, want backup1 and backup3", got)
	}
}

func TestMutateBackupSuffixes(t *testing.T) {
	got := Mutate("config")
	for _, suf := range backupSuffixes {
		if !contains(got, "config"+suf) {
			t.Errorf("Mutate(config) missing suffix %q in %v", suf, got)
		}
	}
}

func TestMutateExtensionSwap(t *testing.T) {
	got := Mutate("index.php")
	if !contains(got, "index.phps") {
		t.Errorf("Mutate(index.php) = %v, want to contain index.phps", got)
	}
}

func TestMutateDebugSubpaths(t *testing.T) {
	got := Mutate("admin")
	if !contains(got, "admin/debug") || !contains(got, "admin/test") || !contains(got, "admin/admin") {
		t.Errorf("Mutate(admin) = %v, want debug/test/admin subpaths", got)
	}
}

func TestMutateSkipsDebugSubpathsForDirectory(t *testing.T) {
	got := Mutate("admin/")
	if contains(got, "admin//debug") {
		t.Errorf("Mutate(admin/) should not append subpaths to a directory path: %v", got)
	}
}
