/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/safariyetu/bigqueryobjects/internal/clients"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/internal/supporting"
	"github.com/safariyetu/bigqueryobjects/internal/telemetry"
	"github.com/safariyetu/bigqueryobjects/spi/client"
	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/encoding"
	"github.com/safariyetu/bigqueryobjects/spi/reader"
	"github.com/safariyetu/bigqueryobjects/spi/table"
	"github.com/safariyetu/bigqueryobjects/spi/version"
	"github.com/safariyetu/bigqueryobjects/spi/wiring"
	"github.com/safariyetu/bigqueryobjects/spi/writer"
	"github.com/safariyetu/bigqueryobjects/testsupport"
	"github.com/samber/lo"
	"github.com/urfave/cli"
)

var (
	configurationFile string
	verbose           bool
	withCaller        bool
	logToStdErr       bool
)

func main() {
	app := &cli.App{
		Name:  version.BinName,
		Usage: "Schema aware object writes and reads for tabular stores",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config,c",
				Value:       "",
				Usage:       "Load configuration from `FILE`",
				Destination: &configurationFile,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Show verbose output",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "caller",
				Usage:       "Collect caller information for log messages",
				Destination: &withCaller,
			},
			&cli.BoolFlag{
				Name:        "log-to-stderr",
				Usage:       "Redirects logging output to stderr",
				Destination: &logToStdErr,
			},
		},
		Commands: []cli.Command{
			{
				Name:   "version",
				Usage:  "Prints the version and exits",
				Action: printVersion,
			},
			{
				Name:      "schema",
				Usage:     "Prints the inferred table schema of a demo record type",
				ArgsUsage: "[user|inventory|alltypes]",
				Action:    printSchema,
			},
			{
				Name:  "demo",
				Usage: "Demonstrates write and read round trips on the configured client",
				Subcommands: []cli.Command{
					{
						Name:   "write",
						Usage:  "Inserts the demo records, creating or updating tables on demand",
						Action: demoWrite,
					},
					{
						Name:   "read",
						Usage:  "Queries the demo tables back and prints the decoded records",
						Action: demoRead,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func printVersion(*cli.Context) error {
	fmt.Printf("%s version %s (git revision %s; branch %s)\n",
		version.BinName, version.Version, version.CommitHash, version.Branch,
	)
	return nil
}

var demoTypes = map[string]reflect.Type{
	"user":      reflect.TypeOf(testsupport.User{}),
	"inventory": reflect.TypeOf(testsupport.InventoryItem{}),
	"alltypes":  reflect.TypeOf(testsupport.AllTypes{}),
}

func printSchema(cliContext *cli.Context) error {
	name := strings.ToLower(cliContext.Args().First())
	demoType, present := demoTypes[name]
	if !present {
		return cli.NewExitError(
			fmt.Sprintf("Unknown demo record type: '%s' (available: user, inventory, alltypes)", name), 1,
		)
	}

	engine, err := objectmapping.NewEngine()
	if err != nil {
		return supporting.AdaptError(err, 6)
	}

	inferred, err := engine.InferSchema(demoType)
	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Schema inference failed", 6)
	}

	rendered, err := encoding.NewJsonEncoder(true).MarshalIndent(inferred, "  ")
	if err != nil {
		return supporting.AdaptError(err, 6)
	}

	fmt.Println(string(rendered))
	return nil
}

func demoWrite(*cli.Context) error {
	services, err := wireDemoServices()
	if err != nil {
		return err
	}
	defer services.close()

	dataset := spiconfig.GetOrDefault(
		services.config, spiconfig.PropertyClientDataset, "public",
	)

	users := testsupport.SampleUsers()
	if err := services.writer.Insert(dataset, "users").
		Rows(lo.ToAnySlice(users)...).
		PartitionBy("last_seen").
		ClusterBy("email").
		Execute(context.Background()); err != nil {
		return supporting.AdaptErrorWithMessage(err, "Inserting users failed", 6)
	}
	fmt.Printf("Inserted %d users into %s.users\n", len(users), dataset)

	inventory := testsupport.SampleInventory()
	if err := services.writer.Insert(dataset, "inventory").
		Rows(lo.ToAnySlice(inventory)...).
		PartitionByGranularity("restocked", table.MONTH).
		ClusterBy("sku").
		Execute(context.Background()); err != nil {
		return supporting.AdaptErrorWithMessage(err, "Inserting inventory failed", 6)
	}
	fmt.Printf("Inserted %d inventory items into %s.inventory\n", len(inventory), dataset)

	return nil
}

func demoRead(*cli.Context) error {
	services, err := wireDemoServices()
	if err != nil {
		return err
	}
	defer services.close()

	dataset := spiconfig.GetOrDefault(
		services.config, spiconfig.PropertyClientDataset, "public",
	)

	userReader, err := reader.NewReader[testsupport.User]()
	if err != nil {
		return supporting.AdaptError(err, 6)
	}
	if err := printDecoded(services, userReader, dataset, "users"); err != nil {
		return supporting.AdaptErrorWithMessage(err, "Reading users failed", 6)
	}

	inventoryReader, err := reader.NewReader[testsupport.InventoryItem]()
	if err != nil {
		return supporting.AdaptError(err, 6)
	}
	if err := printDecoded(services, inventoryReader, dataset, "inventory"); err != nil {
		return supporting.AdaptErrorWithMessage(err, "Reading inventory failed", 6)
	}

	return nil
}

func printDecoded[T any](
	services *demoServices, tableReader *reader.Reader[T], dataset, name string,
) error {

	result, err := services.client.RunQuery(context.Background(), client.Query{
		Table: table.Id{Dataset: dataset, Name: name},
	})
	if err != nil {
		return err
	}

	instances, err := tableReader.Read(result)
	if err != nil {
		return err
	}

	encoder := encoding.NewJsonEncoder(true)

	fmt.Printf("%s.%s (%d rows)\n", dataset, name, len(instances))
	for _, instance := range instances {
		rendered, err := encoder.Marshal(instance)
		if err != nil {
			return err
		}
		fmt.Println(string(rendered))
	}
	return nil
}

type demoServices struct {
	config       *spiconfig.Config
	statsService *telemetry.Service
	client       client.Client
	writer       *writer.Writer
}

func wireDemoServices() (*demoServices, error) {
	config, err := loadConfiguration()
	if err != nil {
		return nil, err
	}

	container, err := wiring.NewContainer(
		wiring.DefineModule("demo", func(module wiring.Module) {
			module.Provide(func() *spiconfig.Config { return config })
			module.Provide(telemetry.NewStatsService)
			module.Provide(clients.NewClient)
			module.Provide(func(statsService *telemetry.Service, c client.Client) (*writer.Writer, error) {
				return writer.NewWriterWithReporter(c, statsService.NewReporter("writer"))
			})
		}),
	)
	if err != nil {
		return nil, supporting.AdaptErrorWithMessage(err, "Wiring the demo services failed", 5)
	}

	services := &demoServices{config: config}
	if err := container.Service(&services.statsService); err != nil {
		return nil, supporting.AdaptError(err, 5)
	}
	if err := container.Service(&services.client); err != nil {
		return nil, supporting.AdaptError(err, 5)
	}
	if err := container.Service(&services.writer); err != nil {
		return nil, supporting.AdaptError(err, 5)
	}

	if err := services.statsService.Start(); err != nil {
		return nil, supporting.AdaptError(err, 6)
	}
	return services, nil
}

func (d *demoServices) close() {
	if err := d.statsService.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed stopping the stats service: %v\n", err)
	}
	if err := d.client.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed closing the client: %v\n", err)
	}
}

func loadConfiguration() (*spiconfig.Config, error) {
	config := &spiconfig.Config{}

	// No configuration file set? Try env variable!
	if configurationFile == "" {
		if cf, present := os.LookupEnv("BIGQUERYOBJECTS_CONFIG"); present {
			fmt.Fprintf(os.Stderr, "Using configuration file from environment variable\n")
			configurationFile = cf
		}
	}

	if configurationFile != "" {
		fmt.Fprintf(os.Stderr, "Loading configuration file: %s\n", configurationFile)
		f, err := os.Open(configurationFile)
		if err != nil {
			return nil, cli.NewExitError(fmt.Sprintf("Configuration file couldn't be opened: %v\n", err), 3)
		}

		b, err := io.ReadAll(f)
		if err != nil {
			return nil, cli.NewExitError(fmt.Sprintf("Configuration file couldn't be read: %v\n", err), 3)
		}

		format := spiconfig.FormatOf(configurationFile)
		if err := spiconfig.Unmarshall(b, format, config); err != nil {
			return nil, cli.NewExitError(fmt.Sprintf("Configuration file couldn't be decoded: %v\n", err), 4)
		}
	}

	spiconfig.ApplyDefaults(config)

	logging.WithCaller = withCaller
	logging.WithVerbose = verbose

	if err := logging.InitializeLogging(config, logToStdErr); err != nil {
		return nil, err
	}

	return config, nil
}
