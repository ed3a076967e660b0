package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/store/csvstore"
)

func newCheckCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the month files of the CSV store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			cs, ok := e.repo.(*csvstore.Store)
			if !ok {
				return fmt.Errorf("check needs the %s backend, config uses %s", config.BackendCSV, e.cfg.Storage.Backend)
			}
			problems, err := cs.Check(cmd.Context())
			if err != nil {
				return err
			}
			if len(problems) == 0 {
				e.printf("All months valid.\n")
				return nil
			}

			months := make([]string, 0, len(problems))
			n := 0
			for m, errs := range problems {
				months = append(months, m)
				n += len(errs)
			}
			sort.Strings(months)
			for _, m := range months {
				for _, verr := range problems[m] {
					e.printf("%s: %s\n", m, verr.Error())
				}
			}
			return fmt.Errorf("%d problems in %d months", n, len(months))
		},
	}
}
