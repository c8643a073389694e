package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/config"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/api"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/client"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

const advertiser model.Address = "EQ-bench-advertiser"

func main() {
	rootCmd := cobra.Command{
		Use: "bench",
	}
	rootCmd.AddCommand(
		benchConfirmCommand(),
		seedCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

func seedCampaign(ctx context.Context, conf config.Config, remote *api.Client) (uint64, error) {
	campaignID, err := remote.Deploy(ctx, advertiser)
	if err != nil {
		return 0, err
	}

	owner := client.NewClient(remote, advertiser, conf.Confirm)
	_, err = owner.Configure(ctx, campaignID, ledger.Configure{
		RegularCostPerAction: model.CostPerAction{0: model.MustParseAmount("0.01", model.NativeDecimals)},
		PremiumCostPerAction: model.CostPerAction{0: model.MustParseAmount("0.02", model.NativeDecimals)},
		IsPublicCampaign:     true,
		PaymentMethod:        model.PaymentMethodNative,
	})
	if err != nil {
		return 0, err
	}

	_, err = owner.Fund(ctx, campaignID, model.MustParseAmount("100", model.NativeDecimals))
	if err != nil {
		return 0, err
	}
	return campaignID, nil
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "deploy, configure and fund one campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.Load()
			remote := api.NewClient(conf.Node.URL, conf.Node.Timeout)

			campaignID, err := seedCampaign(context.Background(), conf, remote)
			if err != nil {
				return err
			}
			fmt.Println("CAMPAIGN:", campaignID)
			return nil
		},
	}
}

func printPercentiles(history []time.Duration) {
	sort.Slice(history, func(i, j int) bool {
		return history[i] < history[j]
	})

	numHistory := len(history)
	if numHistory == 0 {
		fmt.Println("NO SAMPLES")
		return
	}

	total := time.Duration(0)
	for _, d := range history {
		total += d
	}

	fmt.Println("P50:", history[numHistory*50/100])
	fmt.Println("P90:", history[numHistory*90/100])
	fmt.Println("P95:", history[numHistory*95/100])
	fmt.Println("P99:", history[numHistory*99/100])
	fmt.Println("P999:", history[numHistory*999/1000])
	fmt.Println("MAX:", history[numHistory-1])
	fmt.Println("HISTORY LEN:", numHistory)
	fmt.Println("AVG:", total/time.Duration(numHistory))
}

func benchConfirm(numThreads int, numElements int, interval time.Duration) error {
	conf := config.Load()
	if interval > 0 {
		conf.Confirm.Interval = interval
	}
	fmt.Println("NODE:", conf.Node.URL)
	fmt.Println("CONFIRM INTERVAL:", conf.Confirm.Interval)

	remote := api.NewClient(conf.Node.URL, conf.Node.Timeout)
	ctx := context.Background()

	campaignID, err := seedCampaign(ctx, conf, remote)
	if err != nil {
		return err
	}
	fmt.Println("CAMPAIGN:", campaignID)

	durations := make([][]time.Duration, numThreads)
	failures := make([]int, numThreads)

	totalStart := time.Now()

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for th := 0; th < numThreads; th++ {
		threadIndex := th
		go func() {
			defer wg.Done()

			account := model.Address(fmt.Sprintf("EQ-bench-affiliate-%d", threadIndex))
			c := client.NewClient(remote, account, conf.Confirm)

			for i := 0; i < numElements; i++ {
				start := time.Now()
				_, err := c.CreateAffiliate(ctx, campaignID)
				if err != nil {
					fmt.Println("[ERROR]", account, err)
					failures[threadIndex]++
					continue
				}
				durations[threadIndex] = append(durations[threadIndex], time.Since(start))
			}
		}()
	}
	wg.Wait()
	fmt.Println("TOTAL TIME", time.Since(totalStart))

	history := make([]time.Duration, 0, numThreads*numElements)
	numFailures := 0
	for th, bucket := range durations {
		history = append(history, bucket...)
		numFailures += failures[th]
	}
	fmt.Println("FAILURES:", numFailures)

	printPercentiles(history)
	return nil
}

func benchConfirmCommand() *cobra.Command {
	var numThreads int
	var numElements int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "measure the confirmation latency of affiliate creation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchConfirm(numThreads, numElements, interval)
		},
	}
	cmd.Flags().IntVar(&numThreads, "threads", 20, "number of concurrent affiliates")
	cmd.Flags().IntVar(&numElements, "count", 10, "affiliates created per thread")
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "confirmation poll interval")
	return cmd
}
