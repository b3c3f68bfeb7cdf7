package scene

import (
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"nested-shells", "Nested Shells"},
		{"sphere_phantom", "Sphere Phantom"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListScenes(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != len(builtInScenes) {
		t.Fatalf("Expected %d scenes, got %d", len(builtInScenes), len(scenes))
	}

	for i, s := range scenes {
		if s.DisplayName == "" {
			t.Errorf("Scene %q has no display name", s.ID)
		}
		if i > 0 && scenes[i-1].DisplayName > s.DisplayName {
			t.Errorf("Scenes not sorted: %q before %q", scenes[i-1].DisplayName, s.DisplayName)
		}
	}
}

func TestListSceneGroups(t *testing.T) {
	groups := ListSceneGroups()

	total := 0
	for i, g := range groups {
		if i > 0 && groups[i-1].Name > g.Name {
			t.Errorf("Groups not sorted: %q before %q", groups[i-1].Name, g.Name)
		}
		for _, s := range g.Scenes {
			if s.Group != g.Name {
				t.Errorf("Scene %q in group %q has group %q", s.ID, g.Name, s.Group)
			}
		}
		total += len(g.Scenes)
	}

	if total != len(builtInScenes) {
		t.Errorf("Expected %d grouped scenes, got %d", len(builtInScenes), total)
	}
}
