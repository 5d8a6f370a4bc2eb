package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// catalogCmd groups the catalog inspection commands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the streaming catalog",
}

// catalogCountriesCmd prints the country/provider catalog, refreshing
// the persisted cache when it is stale.
var catalogCountriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries and their streaming services",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, logg := cliServices()
		defer logg.Sync()

		countries, err := env.catalog.Countries(cmd.Context())
		if err != nil {
			return err
		}

		codes := make([]string, 0, len(countries))
		for code := range countries {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			country := countries[code]
			fmt.Printf("%s  %s\n", code, country.Name)
			for _, svc := range country.Services {
				fmt.Printf("    %s (%s)\n", svc.Name, svc.ID)
			}
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCountriesCmd)
	RootCmd.AddCommand(catalogCmd)
}
