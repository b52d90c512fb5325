// Package tutorcmder
package tutorcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/tutor/cmd/tutor/chat"
	configcmder "github.com/papercomputeco/tutor/cmd/tutor/config"
	generatecmder "github.com/papercomputeco/tutor/cmd/tutor/generate"
	hrcmder "github.com/papercomputeco/tutor/cmd/tutor/hr"
	initcmder "github.com/papercomputeco/tutor/cmd/tutor/init"
	interviewcmder "github.com/papercomputeco/tutor/cmd/tutor/interview"
	jobscmder "github.com/papercomputeco/tutor/cmd/tutor/jobs"
	learncmder "github.com/papercomputeco/tutor/cmd/tutor/learn"
	mindmapcmder "github.com/papercomputeco/tutor/cmd/tutor/mindmap"
	profilecmder "github.com/papercomputeco/tutor/cmd/tutor/profile"
	servecmder "github.com/papercomputeco/tutor/cmd/tutor/serve"
	versioncmder "github.com/papercomputeco/tutor/cmd/version"
)

const tutorLongDesc string = `Tutor turns any topic into a short course and coaches you through it.

Start the backend, then study from the terminal:
  tutor serve                      Run the tutor backend
  tutor generate "Go concurrency"  Generate a course and keep it in the session
  tutor mindmap                    Show the course outline
  tutor learn [flashcards|situations|tests]
  tutor interview --position "Backend Engineer"
  tutor chat                       Ask the course assistant
  tutor profile                    Show your competency profile
  tutor jobs                       Jobs matching your demonstrated skills
  tutor hr                         Reviewer dashboard`

const tutorShortDesc string = "Tutor - AI course generator and interview coach"

func NewTutorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tutor",
		Short:         tutorShortDesc,
		Long:          tutorLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .tutor/ directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(mindmapcmder.NewMindmapCmd())
	cmd.AddCommand(learncmder.NewLearnCmd())
	cmd.AddCommand(interviewcmder.NewInterviewCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(profilecmder.NewProfileCmd())
	cmd.AddCommand(jobscmder.NewJobsCmd())
	cmd.AddCommand(hrcmder.NewHRCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
