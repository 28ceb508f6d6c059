package provision

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
)

// StatusSink receives progress of a setup run. Implementations swallow their own delivery errors since the
// channel the run was started from is usually deleted during the wipe.
type StatusSink interface {
	// Status reports the start of a phase.
	Status(ctx context.Context, content string)

	// Completed reports a finished run when the notice could not be posted in the guild.
	Completed(ctx context.Context, embed *discordgo.MessageEmbed)

	// Failed reports a run that aborted.
	Failed(ctx context.Context, content string)
}

// NopSink discards every report.
type NopSink struct{}

func (NopSink) Status(context.Context, string) {}

func (NopSink) Completed(context.Context, *discordgo.MessageEmbed) {}

func (NopSink) Failed(context.Context, string) {}
