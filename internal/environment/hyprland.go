package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/makima-go/makima/internal/ids"
)

// activeWindowHyprland queries `hyprctl activewindow -j` and reads its
// "class" field, grounded in original_source/src/active_client.rs's
// Hyprland branch.
func activeWindowHyprland(ctx context.Context) (ids.Client, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return "", fmt.Errorf("hyprctl: %w", err)
	}

	var reply struct {
		Class string `json:"class"`
	}
	if err := json.Unmarshal(out, &reply); err != nil {
		return "", fmt.Errorf("hyprctl: parsing json reply: %w", err)
	}
	return ids.Client(reply.Class), nil
}
