package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/models"
	"github.com/datashield/datashield-go/internal/session"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if name, _ := cmd.Flags().GetString("has"); len(name) > 0 {
				found, err := s.HasTable(ctx, name)
				if err != nil {
					return err
				}
				printFlags(cmd.OutOrStdout(), name, found)
				return nil
			}

			tables, err := s.Tables(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "TABLE", tables)
			return nil
		})
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resources of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if name, _ := cmd.Flags().GetString("has"); len(name) > 0 {
				found, err := s.HasResource(ctx, name)
				if err != nil {
					return err
				}
				printFlags(cmd.OutOrStdout(), name, found)
				return nil
			}

			resources, err := s.Resources(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "RESOURCE", resources)
			return nil
		})
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the DataSHIELD profiles of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			profiles, err := s.Profiles(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "PROFILE", profiles)
			return nil
		})
	},
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the DataSHIELD packages of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			packages, err := s.Packages(ctx)
			if err != nil {
				return err
			}

			t := newTable("SERVER", "PACKAGE", "VERSION")
			for _, server := range sortedServers(packages) {
				for _, pkg := range packages[server] {
					t.Row(server, pkg.Name, pkg.Version)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the DataSHIELD methods of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("type")
		kind, err := models.GetMethodKindFromString(kindFlag)
		if err != nil {
			return err
		}

		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			methods, err := s.Methods(ctx, kind)
			if err != nil {
				return err
			}

			t := newTable("SERVER", "NAME", "TYPE", "CLASS", "VALUE", "PACKAGE", "VERSION")
			for _, server := range sortedServers(methods) {
				for _, method := range methods[server] {
					t.Row(server, method.Name, method.Type, method.Class, method.Value, method.Package, method.Version)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List the saved workspaces of every server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			workspaces, err := s.Workspaces(ctx)
			if err != nil {
				return err
			}

			t := newTable("SERVER", "NAME", "USER", "LAST ACCESS", "SIZE")
			for _, server := range sortedServers(workspaces) {
				for _, ws := range workspaces[server] {
					t.Row(server, ws.Name, ws.User, ws.LastAccessDate, strconv.FormatInt(ws.Size, 10))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

var asyncCmd = &cobra.Command{
	Use:   "async",
	Short: "Show which commands every server runs asynchronously",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			support, err := s.AsyncSupport()
			if err != nil {
				return err
			}

			t := newTable("SERVER", "AGGREGATE", "ASSIGN TABLE", "ASSIGN RESOURCE", "ASSIGN EXPR")
			for _, server := range sortedServers(support) {
				flags := support[server]
				t.Row(server, yesNo(flags.Aggregate), yesNo(flags.AssignTable), yesNo(flags.AssignResource), yesNo(flags.AssignExpr))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

func init() {
	tablesCmd.Flags().String("has", "", "Only check that the named table exists")
	resourcesCmd.Flags().String("has", "", "Only check that the named resource exists")
	methodsCmd.Flags().String("type", string(models.MethodAggregate), "Method type: aggregate or assign")

	rootCmd.AddCommand(tablesCmd, resourcesCmd, profilesCmd, packagesCmd, methodsCmd, workspacesCmd, asyncCmd)
}
