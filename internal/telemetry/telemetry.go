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

package telemetry

import (
	"fmt"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/version"
	"github.com/segmentio/stats/v4"
	"github.com/segmentio/stats/v4/procstats"
	"github.com/segmentio/stats/v4/prometheus"
	"golang.org/x/net/context"
)

type Service struct {
	statsEnabled bool
	handler      *prometheus.Handler
	engine       *stats.Engine
	server       *http.Server
}

func NewStatsService(
	c *config.Config,
) *Service {

	statsHandler := &prometheus.Handler{
		TrimPrefix: version.BinName,
	}

	statsEnabled := config.GetOrDefault(c, config.PropertyStatsEnabled, true)
	statsPort := config.GetOrDefault(c, config.PropertyStatsPort, 8081)

	engine := stats.NewEngine(version.BinName, statsHandler)
	if statsEnabled {
		runtimeMetrics := procstats.NewGoMetricsWith(engine)
		procstats.StartCollector(runtimeMetrics)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", statsHandler.ServeHTTP)

	return &Service{
		statsEnabled: statsEnabled,
		handler:      statsHandler,
		engine:       engine,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", statsPort),
			Handler: mux,
		},
	}
}

func (s *Service) Start() error {
	if s.statsEnabled {
		go func() {
			err := s.server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				panic(err)
			}
		}()
	}
	return nil
}

func (s *Service) Stop() error {
	if !s.statsEnabled {
		return nil
	}
	return s.server.Shutdown(context.Background())
}

func (s *Service) NewReporter(
	prefix string,
) *Reporter {

	engine := s.engine.WithPrefix(prefix)
	return &Reporter{
		statsEnabled: s.statsEnabled,
		engine:       engine,
	}
}

// Reporter is a namespaced counter sink. A disabled reporter
// swallows all measurements, callers never branch on the stats
// switch themselves.
type Reporter struct {
	statsEnabled bool
	engine       *stats.Engine
}

// NewDisabledReporter backs components that were constructed
// without a stats service
func NewDisabledReporter() *Reporter {
	return &Reporter{statsEnabled: false}
}

func (r *Reporter) Incr(
	name string, tags ...stats.Tag,
) {

	if r.statsEnabled {
		r.engine.Incr(name, tags...)
	}
}

func (r *Reporter) Add(
	name string, value any, tags ...stats.Tag,
) {

	if r.statsEnabled {
		r.engine.Add(name, value, tags...)
	}
}
