package handlers

import (
	"testing"

	"attendance-bot/internal/bot"
	"attendance-bot/internal/models"
)

func TestRouteGroupText(t *testing.T) {
	awaitingReason := &models.UserState{UserID: 1, State: models.StateAwaitingReason}
	awaitingCustom := &models.UserState{UserID: 1, State: models.StateAwaitingCustomReason}

	tests := []struct {
		name  string
		state *models.UserState
		text  string
		want  groupAction
	}{
		{"absent button idle", nil, bot.BtnAbsent, groupActionAbsentButton},
		{"report button idle", nil, bot.BtnReport, groupActionReport},
		{"freeform reason", awaitingCustom, "проспал", groupActionCustomReason},
		{"absent button restarts flow", awaitingCustom, bot.BtnAbsent, groupActionAbsentButton},
		{"report button mid-flow", awaitingCustom, bot.BtnReport, groupActionReport},
		{"chatter while idle", nil, "привет", groupActionCaptureUsername},
		{"chatter while choosing reason", awaitingReason, "привет", groupActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routeGroupText(tt.state, tt.text); got != tt.want {
				t.Errorf("routeGroupText(%v, %q) = %v, want %v", tt.state, tt.text, got, tt.want)
			}
		})
	}
}

func TestPrivateHelpAllowed(t *testing.T) {
	b := &bot.Bot{Access: bot.AccessConfig{AllowedUserIDs: []int64{7}}}

	if !privateHelpAllowed(b, 7) {
		t.Error("allowed user must pass the help gate")
	}
	if privateHelpAllowed(b, 8) {
		t.Error("unknown user must be rejected by the help gate")
	}
}
