package bolt

import "github.com/stancil-services/boltsync/internal/core/domain"

// Bootstrap cursors issued by the vendor for the three event streams.
// They are opaque; their embedded offsets mark the earliest in-scope event.
const (
	JobEventsToken             = "BAhJIkZ7ImV2ZW50X2lkIjo2NDE2NzIsInBhZ2Vfc2l6ZSI6MTAwLCJwYXRoIjoiL29wZW4vdjEvam9icy9ldmVudHMifQY6BkVU--2ce0a3fbd3b39803fa1f520b30311553dfd7c9d68bfae2ee7e01b5a0f919f4b0"
	WorkOrderEventsToken       = "BAhJIk57ImV2ZW50X2lkIjo0Mjg4NTA0LCJwYWdlX3NpemUiOjEwMCwicGF0aCI6Ii9vcGVuL3YxL3dvcmtfb3JkZXJzL2V2ZW50cyJ9BjoGRVQ=--32c7dba9923c9f2e3e196f308a13cf43aef26f97b79896d6d9d99e2056f0b8eb"
	WorkOrderStatusEventsToken = "BAhJIlZ7ImV2ZW50X2lkIjozMTg1MDQzLCJwYWdlX3NpemUiOjEwMCwicGF0aCI6Ii9vcGVuL3YxL3dvcmtfb3JkZXJfc3RhdHVzZXMvZXZlbnRzIn0GOgZFVA==--1309f349eb6449740ff2431a58e704746e7450b498ee71022e7427ff0bad0dc2"
)

// Pagination parameter and response keys.
const (
	ParamNextBatch    = "next_batch"
	ParamRefreshToken = "refresh_token"
	ParamEventToken   = "event_token"

	eventsKey = "events"
)

var (
	idKey      = []string{"id"}
	eventIDKey = []string{"event_id"}
)

func snapshot(name, path, envelope string) domain.Table {
	return domain.Table{
		Name:        name,
		Path:        path,
		Kind:        domain.KindSnapshot,
		EnvelopeKey: envelope,
		PrimaryKey:  idKey,
	}
}

func events(name, path string, kind domain.TableKind, token string) domain.Table {
	return domain.Table{
		Name:              name,
		Path:              path,
		Kind:              kind,
		PrimaryKey:        eventIDKey,
		InitialEventToken: token,
	}
}

// Tables is the static table registry in sync order.
var Tables = domain.Registry{
	snapshot("builder_orders", "/open/v1/builder/orders", "builder_orders"),
	snapshot("cities", "/open/v1/cities", "cities"),
	snapshot("communities", "/open/v1/communities", "communities"),
	snapshot("contracts", "/open/v1/contracts", "contracts"),
	snapshot("crews", "/open/v1/crews", "crews"),
	snapshot("customer_pricings", "/open/v1/customer_pricings", "customer_pricings"),
	snapshot("customers", "/open/v1/customers", "customers"),
	snapshot("employees", "/open/v1/employees", "employees"),
	snapshot("floorplans", "/open/v1/floorplans", "floorplans"),
	snapshot("invoices", "/open/v1/invoices", "accounting_invoices"),
	{
		Name:           "job_type_configuration",
		Path:           "/open/v1/job_type_configuration",
		Kind:           domain.KindSnapshot,
		EnvelopeKey:    "job_type_configuration",
		AllowBareArray: true,
		PrimaryKey:     []string{"job_type_id"},
	},
	snapshot("jobs", "/open/v1/jobs", "jobs"),
	snapshot("offices", "/open/v1/offices", "offices"),
	snapshot("schedules", "/open/v1/schedules", "work_orders"),
	snapshot("takeoff_types", "/open/v1/takeoff_types", "takeoff_types"),
	snapshot("types", "/open/v1/types", "types"),
	snapshot("work_order_types", "/open/v1/work_order_types", "work_order_types"),
	snapshot("work_orders", "/open/v1/work_orders", "work_orders"),
	events("job_events", "/open/v1/jobs/events", domain.KindJobEvents, JobEventsToken),
	events("work_order_events", "/open/v1/work_orders/events", domain.KindWorkOrderEvents, WorkOrderEventsToken),
	events("work_order_status_events", "/open/v1/work_order_statuses/events", domain.KindWorkOrderStatusEvents, WorkOrderStatusEventsToken),
}
