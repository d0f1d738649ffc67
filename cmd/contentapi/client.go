package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeit-online/contentapi/internal/domain"
	clientrepo "github.com/zeit-online/contentapi/internal/repository/client"
	"github.com/zeit-online/contentapi/internal/usecase/query"
)

var (
	clientTier  string
	clientLimit int
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage API clients",
}

var clientCreateCmd = &cobra.Command{
	Use:   "create NAME EMAIL",
	Short: "Register a client without a CAPTCHA and print its api key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		tier := domain.Tier(clientTier)
		if _, ok := a.tiers()[tier]; !ok {
			return fmt.Errorf("unknown tier %q", clientTier)
		}
		key, err := query.NewAPIKey()
		if err != nil {
			return err
		}
		c := domain.Client{
			APIKey: key,
			Tier:   tier,
			Name:   args[0],
			Email:  args[1],
			Reset:  time.Now().Unix(),
		}
		if err := clientrepo.New(a.store).Create(cmd.Context(), c); err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered clients, most recently active first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		clients, err := clientrepo.New(a.store).List(cmd.Context(), clientLimit)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}

		tiers := a.tiers()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "API KEY\tTIER\tNAME\tEMAIL\tREQUESTS\tQUOTA\tWINDOW START")
		for _, c := range clients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				c.APIKey, c.Tier, c.Name, c.Email, c.Requests, tiers.Quota(c.Tier),
				time.Unix(c.Reset, 0).UTC().Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	clientCreateCmd.Flags().StringVar(&clientTier, "tier", string(domain.TierFree), "access tier (free, pro, max)")
	clientListCmd.Flags().IntVar(&clientLimit, "limit", 100, "maximum number of clients")
	clientCmd.AddCommand(clientCreateCmd, clientListCmd)
}
