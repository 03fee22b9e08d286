package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pomobell/internal/core/schedule"
	"pomobell/internal/dto"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Start an interval timer on the running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetInt("interval")
		repetitions, _ := cmd.Flags().GetInt("repetitions")
		sound, _ := cmd.Flags().GetBool("sound")

		status, err := c.StartTimer(cmd.Context(), dto.TimerCommand{
			Interval:    interval,
			Repetitions: repetitions,
			Sound:       sound,
			StartTime:   time.Now().UnixMilli(),
		})
		if err != nil {
			return fmt.Errorf("start timer: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Start a pomodoro cycle on the running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		work, _ := cmd.Flags().GetInt("work")
		shortBreak, _ := cmd.Flags().GetInt("break")
		longBreak, _ := cmd.Flags().GetInt("long-break")
		count, _ := cmd.Flags().GetInt("count")

		status, err := c.StartPomodoro(cmd.Context(), dto.PomodoroCommand{
			WorkDuration:      work,
			BreakDuration:     shortBreak,
			LongBreakDuration: longBreak,
			TotalPomodoros:    count,
			StartTime:         time.Now().UnixMilli(),
		})
		if err != nil {
			return fmt.Errorf("start pomodoro: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

var resetCmd = &cobra.Command{
	Use:       "reset [timer|pomodoro]",
	Short:     "Stop whatever regime is running",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(schedule.RegimeTimer), string(schedule.RegimePomodoro)},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 && args[0] == string(schedule.RegimePomodoro) {
			err = c.ResetPomodoro(cmd.Context())
		} else {
			err = c.ResetTimer(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timerCmd, pomodoroCmd, resetCmd)

	timerCmd.Flags().Int("interval", 25, "Minutes between notifications")
	timerCmd.Flags().Int("repetitions", 5, "Number of notifications")
	timerCmd.Flags().Bool("sound", true, "Play a sound with each notification")

	pomodoroCmd.Flags().Int("work", 25, "Work phase in minutes")
	pomodoroCmd.Flags().Int("break", 5, "Short break in minutes")
	pomodoroCmd.Flags().Int("long-break", 15, "Long break in minutes")
	pomodoroCmd.Flags().Int("count", 4, "Number of pomodoros")
}
