package domain

import "testing"

func TestPathFunctions(t *testing.T) {
	dataDir := "/repo/.tracker"

	t.Run("DataDir", func(t *testing.T) {
		got := DataDir("/repo")
		if got != dataDir {
			t.Errorf("DataDir(%q) = %q, want %q", "/repo", got, dataDir)
		}
	})

	t.Run("RepoConfigPath", func(t *testing.T) {
		got := RepoConfigPath(dataDir)
		want := "/repo/.tracker/config.toml"
		if got != want {
			t.Errorf("RepoConfigPath(%q) = %q, want %q", dataDir, got, want)
		}
	})

	t.Run("GlobalDir", func(t *testing.T) {
		got := GlobalDir("/home/u/.config")
		want := "/home/u/.config/task-tracker"
		if got != want {
			t.Errorf("GlobalDir() = %q, want %q", got, want)
		}
	})

	t.Run("GlobalLogPath", func(t *testing.T) {
		got := GlobalLogPath(dataDir)
		want := "/repo/.tracker/logs/tracker.log"
		if got != want {
			t.Errorf("GlobalLogPath(%q) = %q, want %q", dataDir, got, want)
		}
	})

	t.Run("EntityLogPath", func(t *testing.T) {
		got := EntityLogPath(dataDir, 7)
		want := "/repo/.tracker/logs/task-7.log"
		if got != want {
			t.Errorf("EntityLogPath(%q, 7) = %q, want %q", dataDir, got, want)
		}
	})
}

func TestResolveStorePath_2(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "tasks.csv", "/repo/.tracker/tasks.csv"},
		{"nested", "data/tasks.json", "/repo/.tracker/data/tasks.json"},
		{"absolute", "/var/lib/tasks.csv", "/var/lib/tasks.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStorePath("/repo/.tracker", tt.path)
			if got != tt.want {
				t.Errorf("ResolveStorePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
