package services

import (
	"strings"
	"testing"
)

func TestDevModeDeviceFlow(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "")
	auth := NewAuthService(newMemStore())
	if !auth.DevMode() {
		t.Fatal("expected dev mode without GITHUB_CLIENT_ID")
	}

	resp, err := auth.StartDeviceFlow()
	if err != nil {
		t.Fatalf("StartDeviceFlow: %v", err)
	}
	if resp.DeviceCode != "DEV-0001" || resp.UserCode != resp.DeviceCode {
		t.Errorf("unexpected dev codes: %+v", resp)
	}

	poll, err := auth.PollDeviceFlow(resp.DeviceCode)
	if err != nil {
		t.Fatalf("PollDeviceFlow: %v", err)
	}
	if poll.Status != "complete" || poll.Token == "" {
		t.Errorf("unexpected poll result: %+v", poll)
	}
	if !strings.HasPrefix(poll.Username, "dev_player_") {
		t.Errorf("dev username = %q", poll.Username)
	}
}

func TestDevModeCodesIncrement(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "")
	auth := NewAuthService(newMemStore())
	first, _ := auth.StartDeviceFlow()
	second, _ := auth.StartDeviceFlow()
	if first.DeviceCode != "DEV-0001" || second.DeviceCode != "DEV-0002" {
		t.Errorf("codes = %q, %q", first.DeviceCode, second.DeviceCode)
	}
}

func TestDevModeRejectsUnknownCode(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "")
	auth := NewAuthService(newMemStore())
	if _, err := auth.PollDeviceFlow("not-a-code"); err == nil {
		t.Error("expected an error for a malformed device code")
	}
}
