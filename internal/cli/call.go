package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/sipcall/internal/app/callsession"
)

// resolveWait bounds how long a scripted call waits for the contact name
// before moving on. Resolution never blocks the state machine itself.
const resolveWait = 2 * time.Second

type callOptions struct {
	answer bool
	talk   time.Duration
	fail   string
}

func newCallCommand(opts *RootOptions) *cobra.Command {
	var co callOptions

	cmd := &cobra.Command{
		Use:   "call <phone>",
		Short: "Place an outgoing call",
		Long: `Place an outgoing call and walk it through the session states.

Without --answer the call is canceled while dialing and logged as missed.
With --answer the remote side picks up, the call lasts --talk and is hung up.
--fail simulates a session failure while dialing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := cmd.Context()
			ctrl, err := a.Calls.StartOutgoing(ctx, args[0])
			if err != nil {
				return err
			}
			waitResolved(ctx, ctrl)

			switch {
			case co.fail != "":
				err = ctrl.Fail(ctx, co.fail)
			case co.answer:
				err = talkThenHangup(ctx, ctrl, ctrl.MarkConnected, co.talk)
			default:
				err = ctrl.CancelOutgoing(ctx)
			}
			return printSession(opts, cmd, ctrl, err)
		},
	}

	cmd.Flags().BoolVar(&co.answer, "answer", false, "the remote party answers")
	cmd.Flags().DurationVar(&co.talk, "talk", 0, "how long the connected call lasts")
	cmd.Flags().StringVar(&co.fail, "fail", "", "fail the call with this reason")
	return cmd
}

func newIncomingCommand(opts *RootOptions) *cobra.Command {
	var co callOptions

	cmd := &cobra.Command{
		Use:   "incoming <phone>",
		Short: "Simulate an incoming call",
		Long: `Simulate an incoming call. Without --accept it is rejected and logged as missed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := cmd.Context()
			ctrl, err := a.Calls.ReceiveIncoming(ctx, args[0])
			if err != nil {
				return err
			}
			waitResolved(ctx, ctrl)

			if co.answer {
				err = talkThenHangup(ctx, ctrl, ctrl.AcceptIncoming, co.talk)
			} else {
				err = ctrl.RejectIncoming(ctx)
			}
			return printSession(opts, cmd, ctrl, err)
		},
	}

	cmd.Flags().BoolVar(&co.answer, "accept", false, "answer the call")
	cmd.Flags().DurationVar(&co.talk, "talk", 0, "how long the connected call lasts")
	return cmd
}

func waitResolved(ctx context.Context, ctrl *callsession.Controller) {
	select {
	case <-ctrl.Resolved():
	case <-time.After(resolveWait):
	case <-ctx.Done():
	}
}

func talkThenHangup(ctx context.Context, ctrl *callsession.Controller, connect func(context.Context) error, talk time.Duration) error {
	if err := connect(ctx); err != nil {
		return err
	}
	if talk > 0 {
		select {
		case <-time.After(talk):
		case <-ctx.Done():
		}
	}
	return ctrl.Terminate(ctx)
}

// printSession prints the final session even when the history write failed,
// then returns that error.
func printSession(opts *RootOptions, cmd *cobra.Command, ctrl *callsession.Controller, callErr error) error {
	recordID, _ := ctrl.RecordID()
	if err := opts.printer(cmd).Session(ctrl.Snapshot(), recordID); err != nil {
		return err
	}
	return callErr
}
