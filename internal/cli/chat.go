package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mrlokans/library-agent/internal/agent"
	"github.com/mrlokans/library-agent/internal/console"
	"github.com/mrlokans/library-agent/internal/database"
	"github.com/mrlokans/library-agent/internal/store"
)

// session is one open store connection and the agent reading through it.
type session struct {
	db    *database.Database
	agent *agent.Agent
}

func (a *app) openSession() (*session, error) {
	ref, err := a.cfg.ReferenceTime()
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(a.cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open library database")
	}

	ag := agent.New(store.New(db.SQL))
	ag.SetReferenceDate(ref)
	return &session{db: db, agent: ag}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (a *app) newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return console.New(s.agent, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

func (a *app) newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Example: `  library ask "Books by George Orwell"
  library ask which books are overdue --today 2026-02-11`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			question := strings.Join(args, " ")
			fmt.Fprintln(cmd.OutOrStdout(), s.agent.ProcessQuery(cmd.Context(), question))
			return nil
		},
	}
}
