package dictionary

import (
	"net/http"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	"github.com/Financial-Times/service-status-go/gtg"
	serviceStatus "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

const (
	panicGuideURL  = "https://runbooks.ftops.tech/pons-dictionary-lookup"
	businessImpact = "Dictionary lookups will fail and users will see no translations"
)

func (h *DictionaryLookupHandler) RegisterAdminHandlers(serveMux *http.ServeMux, router *mux.Router, appSystemCode string, appName string, appDescription string) {
	h.log.Info("Registering admin handlers")

	var monitoringRouter http.Handler = router
	monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(log.StandardLogger(), monitoringRouter)
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	var checks = []fthealth.Check{h.dictionaryServiceHealthCheck()}

	timedHC := fthealth.TimedHealthCheck{
		HealthCheck: fthealth.HealthCheck{
			SystemCode:  appSystemCode,
			Description: appDescription,
			Name:        appName,
			Checks:      checks,
		},
		Timeout: 10 * time.Second,
	}

	serveMux.HandleFunc("/__health", fthealth.Handler(&timedHC))
	serveMux.HandleFunc(serviceStatus.GTGPath, serviceStatus.NewGoodToGoHandler(gtg.StatusChecker(h.gtg)))
	serveMux.HandleFunc(serviceStatus.BuildInfoPath, serviceStatus.BuildInfoHandler)

	serveMux.Handle("/", monitoringRouter)
}

func (h *DictionaryLookupHandler) gtg() gtg.Status {
	dictionaryCheck := func() gtg.Status {
		return gtgCheck(h.lookups.CheckConnectivity)
	}

	return gtg.FailFastParallelCheck([]gtg.StatusChecker{
		dictionaryCheck,
	})()
}

func gtgCheck(handler func() (string, error)) gtg.Status {
	if _, err := handler(); err != nil {
		return gtg.Status{GoodToGo: false, Message: err.Error()}
	}
	return gtg.Status{GoodToGo: true}
}

func (h *DictionaryLookupHandler) dictionaryServiceHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   businessImpact,
		Name:             "Check connectivity to the PONS dictionary API",
		PanicGuide:       panicGuideURL,
		Severity:         2,
		TechnicalSummary: `Check that api.pons.com is reachable and that PONS_API_KEY is still valid`,
		Checker:          h.lookups.CheckConnectivity,
	}
}
