package e2e

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"duospace/client"
	"duospace/domain"
)

type testTwoClientSyncSuite struct {
	BaseSuite
}

func TestTwoClientSyncSuite(t *testing.T) {
	suite.Run(t, &testTwoClientSyncSuite{})
}

func (s *testTwoClientSyncSuite) TestFullDuetFlow() {
	mira := s.NewClient("mira")
	theo := s.NewClient("theo")

	var code string

	s.Run("Step 1: Mira creates a space and gets an invite code", func() {
		space, err := s.registry.CreateSpace(domain.CreateSpaceCommand{UserID: mira.User.ID, Name: "Nest"})
		s.Require().NoError(err)
		s.Require().Len(space.Code, 6)
		code = space.Code

		s.Converged(mira, func(v *client.View) bool { return v.Space() != nil })
	})

	s.Run("Step 2: Theo joins by code and both views converge", func() {
		_, err := s.registry.JoinSpace(domain.JoinSpaceCommand{UserID: theo.User.ID, Code: code})
		s.Require().NoError(err)

		bothIn := func(v *client.View) bool {
			space := v.Space()
			return space != nil && len(space.Members) == 2
		}
		s.Converged(mira, bothIn)
		s.Converged(theo, bothIn)
	})

	s.Run("Step 3: A message sent by Mira reaches Theo's view", func() {
		space := mira.View.Space()
		sent, err := s.messages.Send(domain.SendMessageCommand{
			SpaceID:  space.ID,
			SenderID: mira.User.ID,
			Content:  "good morning",
		})
		s.Require().NoError(err)
		mira.View.Echo(sent)

		// The sender sees the optimistic echo immediately.
		s.Require().NotEmpty(mira.View.Messages())

		s.Converged(theo, func(v *client.View) bool {
			return lo.ContainsBy(v.Messages(), func(m domain.Message) bool {
				return m.Content == "good morning"
			})
		})

		// Once polled, the echo is deduplicated on Mira's side too.
		s.Converged(mira, func(v *client.View) bool {
			matches := lo.Filter(v.Messages(), func(m domain.Message, _ int) bool {
				return m.Content == "good morning"
			})
			return len(matches) == 1
		})
	})

	s.Run("Step 4: Game moves propagate between clients", func() {
		space := mira.View.Space()

		_, err := s.games.MakeMove(domain.MakeMoveCommand{SpaceID: space.ID, UserID: mira.User.ID, Cell: 4})
		s.Require().NoError(err)

		s.Converged(theo, func(v *client.View) bool {
			game := v.Game()
			return game != nil && game.Board[4] == "X" && game.CurrentPlayer == theo.User.ID
		})

		_, err = s.games.MakeMove(domain.MakeMoveCommand{SpaceID: space.ID, UserID: theo.User.ID, Cell: 0})
		s.Require().NoError(err)

		s.Converged(mira, func(v *client.View) bool {
			game := v.Game()
			return game != nil && game.Board[0] == "O" && game.CurrentPlayer == mira.User.ID
		})
	})

	s.Run("Step 5: Reset needs both, then clears the board for both", func() {
		space := mira.View.Space()

		_, err := s.games.RequestReset(mira.User.ID, space.ID)
		s.Require().NoError(err)

		s.Converged(theo, func(v *client.View) bool {
			game := v.Game()
			return game != nil && len(game.ResetRequests) == 1
		})

		_, err = s.games.RequestReset(theo.User.ID, space.ID)
		s.Require().NoError(err)

		cleared := func(v *client.View) bool {
			game := v.Game()
			return game != nil && game.FilledCells() == 0 && len(game.ResetRequests) == 0
		}
		s.Converged(mira, cleared)
		s.Converged(theo, cleared)
	})

	s.Run("Step 6: Leaving tears the space down for the one left behind", func() {
		space := mira.View.Space()

		s.Require().NoError(s.registry.LeaveSpace(s.ctx, theo.User.ID, space.ID))
		s.Converged(mira, func(v *client.View) bool {
			sp := v.Space()
			return sp != nil && len(sp.Members) == 1
		})

		s.Require().NoError(s.registry.LeaveSpace(s.ctx, mira.User.ID, space.ID))
		s.Converged(mira, func(v *client.View) bool { return v.Space() == nil })
	})
}
