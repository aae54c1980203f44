package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed data into the database",
}

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the admin account from ADMIN_EMAIL and ADMIN_PASSWORD",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		created, err := a.auth.SeedAdmin(cmd.Context(), a.cfg.Admin.Email, a.cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", a.cfg.Admin.Email)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s already exists\n", a.cfg.Admin.Email)
		}
		return nil
	},
}

var (
	seedUser  string
	seedMonth int
	seedYear  int
)

var seedScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Replace a user's month with random demo schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(seedUser)
		if err != nil {
			return fmt.Errorf("--user must be a uuid: %w", err)
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		n, err := a.schedules.CreateDummyMonth(ctx, userID, seedMonth, seedYear)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d schedules for %04d-%02d\n", n, seedYear, seedMonth)
		return nil
	},
}

func init() {
	seedScheduleCmd.Flags().StringVar(&seedUser, "user", "", "User id")
	seedScheduleCmd.Flags().IntVar(&seedMonth, "month", 0, "Month (1-12)")
	seedScheduleCmd.Flags().IntVar(&seedYear, "year", 0, "Year")
	_ = seedScheduleCmd.MarkFlagRequired("user")
	_ = seedScheduleCmd.MarkFlagRequired("month")
	_ = seedScheduleCmd.MarkFlagRequired("year")

	seedCmd.AddCommand(seedAdminCmd, seedScheduleCmd)
	rootCmd.AddCommand(seedCmd)
}
