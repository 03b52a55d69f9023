package session

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memgame-go/internal/model"
)

type ContextSuite struct {
	suite.Suite
	session *Context
}

func TestContextSuite(t *testing.T) {
	suite.Run(t, new(ContextSuite))
}

func (s *ContextSuite) SetupTest() {
	s.session = New()
}

func (s *ContextSuite) TestStartsSignedOut() {
	s.Nil(s.session.CurrentUser())
	s.False(s.session.ConsumeResume())
}

func (s *ContextSuite) TestSignInAndOut() {
	alice := &model.Profile{Username: "alice"}
	s.session.SignIn(alice)
	s.Same(alice, s.session.CurrentUser())

	s.session.SignOut()
	s.Nil(s.session.CurrentUser())
}

func (s *ContextSuite) TestConsumeResumeClearsFlag() {
	s.session.SignIn(&model.Profile{Username: "alice"})
	s.session.RequestResume(true)

	s.True(s.session.ConsumeResume())
	s.False(s.session.ConsumeResume())
}

func (s *ContextSuite) TestSignInDropsResumeRequest() {
	s.session.RequestResume(true)
	s.session.SignIn(&model.Profile{Username: "bob"})
	s.False(s.session.ConsumeResume())
}

func (s *ContextSuite) TestReplaceOnlyForSameUser() {
	s.session.SignIn(&model.Profile{Username: "alice"})

	s.session.Replace(&model.Profile{Username: "bob", GamesWon: 3})
	s.Equal("alice", s.session.CurrentUser().Username)

	fresh := &model.Profile{Username: "ALICE", GamesWon: 2}
	s.session.Replace(fresh)
	s.Same(fresh, s.session.CurrentUser())
}
