package main

import (
	"github.com/Jacobbrewer1/den/pkg/provision"
	"github.com/Jacobbrewer1/den/pkg/tickets"
)

// Text command names.
const (
	CmdPing   = "ping"
	CmdStats  = "stats"
	CmdHelp   = "help"
	CmdAbout  = "about"
	CmdInvite = "invite"
	CmdSetup  = "setup"
	CmdBan    = "ban"
	CmdKick   = "kick"
	CmdClear  = "clear"
)

func commands() map[string]commandProcessor {
	return map[string]commandProcessor{
		CmdPing:   pingCommand,
		CmdStats:  statsCommand,
		CmdHelp:   helpCommand,
		CmdAbout:  aboutCommand,
		CmdInvite: inviteCommand,
		CmdSetup:  setupCommand,
		CmdBan:    banCommand,
		CmdKick:   kickCommand,
		CmdClear:  clearCommand,
	}
}

func buttons() map[string]buttonProcessor {
	return map[string]buttonProcessor{
		provision.ConfirmKey: setupConfirmButton,
		tickets.OpenKey:      ticketOpenButton,
		tickets.CloseKey:     ticketCloseButton,
	}
}
