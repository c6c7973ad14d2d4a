package main

import (
	"fmt"

	"github.com/riddim-exe/riddim/bootstrap"
	"github.com/riddim-exe/riddim/internal/tokenutil"
	"github.com/spf13/cobra"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发访问令牌（用于删除接口）",
	RunE: func(cmd *cobra.Command, args []string) error {
		env := bootstrap.NewEnv(configFile)
		token, err := tokenutil.CreateAccessToken(tokenSubject, env.AccessTokenSecret, env.AccessTokenExpiryHour)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "令牌主体")
}
