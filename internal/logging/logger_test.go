package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	logger *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (s *LoggerTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.logger = NewLoggerTo(s.buf, INFO)
}

func (s *LoggerTestSuite) TestLevelFiltering() {
	// Execute
	s.logger.Debug("hidden %d", 1)
	s.logger.Info("shown %d", 2)

	// Assert
	out := s.buf.String()
	s.NotContains(out, "hidden")
	s.Contains(out, "INFO")
	s.Contains(out, "shown 2")
	s.Contains(out, "logger_test.go", "Caller should point at the test file")
}

func (s *LoggerTestSuite) TestSetLevel() {
	s.logger.SetLevel(ERROR)

	s.logger.Warn("quiet")
	s.logger.Error("loud")

	s.NotContains(s.buf.String(), "quiet")
	s.Contains(s.buf.String(), "loud")
}

func (s *LoggerTestSuite) TestLogError_CodedError() {
	err := types.Wrap(types.ErrDatabaseError, "failed to save deck", errors.New("disk full"))

	s.logger.LogError(err)

	out := s.buf.String()
	s.Contains(out, "Code: DATABASE_ERROR")
	s.Contains(out, "Message: failed to save deck")
	s.Contains(out, "Cause: disk full")
}

func (s *LoggerTestSuite) TestLogError_PlainError() {
	s.logger.LogError(errors.New("boom"))

	s.Contains(s.buf.String(), "Unexpected error: boom")
}

func (s *LoggerTestSuite) TestParseLevel() {
	testCases := []struct {
		name     string
		input    string
		expected Level
		wantErr  bool
	}{
		{name: "lower case", input: "debug", expected: DEBUG},
		{name: "upper case", input: "WARN", expected: WARN},
		{name: "unknown", input: "verbose", expected: INFO, wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			level, err := ParseLevel(tc.input)
			s.Equal(tc.expected, level)
			if tc.wantErr {
				s.Error(err)
			} else {
				s.NoError(err)
			}
		})
	}
}
