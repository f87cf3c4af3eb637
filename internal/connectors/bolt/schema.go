package bolt

import (
	"fmt"
	"strings"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

// typeSuffixes maps the short column suffixes used below to column types.
// A column without a suffix is a STRING.
var typeSuffixes = map[string]domain.ColumnType{
	"L": domain.TypeLong,
	"F": domain.TypeFloat,
	"B": domain.TypeBoolean,
	"D": domain.TypeNaiveDate,
	"U": domain.TypeUTCDateTime,
}

// columns parses "name" and "name:T" definitions.
func columns(defs ...string) []domain.Column {
	out := make([]domain.Column, 0, len(defs))
	for _, def := range defs {
		name, suffix, typed := strings.Cut(def, ":")
		colType := domain.TypeString
		if typed {
			t, ok := typeSuffixes[suffix]
			if !ok {
				panic(fmt.Sprintf("bolt: bad column type %q in %q", suffix, def))
			}
			colType = t
		}
		out = append(out, domain.Column{Name: name, Type: colType})
	}
	return out
}

func prefixed(prefix string, defs ...string) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = prefix + d
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	addressColumns = []string{"address1", "address2", "city", "state", "zip"}
	contactColumns = []string{"fullname", "email", "phone", "cellphone", "fax"}

	workOrderColumns = []string{
		"id:L", "work_order_type", "work_order_type_id:L", "job_number:L", "supervisor_id:L",
		"reschedule_date", "created_at:U", "updated_at:U", "notes", "stage", "crew_notes",
		"home_owner", "home_owner_email", "home_owner_phone", "completed_date",
		"estimated_completion_date", "percentage_of_completion:L", "crews", "crew_ids",
		"floorplan_options_charges", "job_extras_charges", "labor_total:F", "price_total:F",
		"floorplan_contract_charge:F", "floorplan_labor_charge:F", "crew_pay_extra_added_pay:F",
		"appointment_start_time", "appointment_end_time", "schedule_change_comment",
		"schedule_change_reason", "warranty_issue_id:L", "warranty_issue", "department_type", "etag",
	}
)

// tableColumns holds the declared columns of every registry table.
var tableColumns = map[string][]string{
	"builder_orders": {
		"id:L", "order_type", "stage:L", "stage_description", "work_order_id:L",
		"work_order_type_id:L", "start_date", "job_address", "floorplan_name", "city_name",
		"community_name", "customer_name", "notes", "created_at:U", "updated_at:U",
		"order_number", "total:F", "task_name", "type", "accepted_at", "task_descriptions",
		"item_details",
	},
	"cities": {"id:L", "name", "state", "created_at:U", "updated_at:U", "etag"},
	"communities": {
		"id:L", "name", "city", "customer", "office", "supervisor", "project_manager",
		"active:B", "security:B", "warranties", "email_confirmation_to_supervisor:B",
		"under_warranty:B", "map_location", "external_id", "etag",
	},
	"contracts": {
		"id:L", "number:L", "status", "category", "po_number", "notes", "description",
		"work_order_id:L", "assigned_to", "pricing_mode", "job", "total:F",
		"created_at:U", "updated_at:U", "etag",
	},
	"crews": {
		"id:L", "name", "active:B", "phone", "calendar_color", "truck_number",
		"update_member_ids", "members", "member_pays", "leader_id:L", "leader",
		"office_ids", "offices", "crew_type_ids", "crew_types", "etag",
	},
	"customer_pricings": {
		"id:L", "description", "sku", "item_number", "price:F", "labor:F", "active_date",
		"inactive_date", "favorite:B", "print_on_all_contractuals:B", "city_id:L", "city",
		"customer_id:L", "customer", "community_id:L", "community", "floorplan_id:L",
		"floorplan", "retail_price:F", "etag", "extended_labor_costs",
	},
	"customers": concat(
		[]string{
			"id:L", "name", "status", "phone", "email", "notes", "po_required:B",
			"work_order_notes", "email_confirmation_to_supervisor:B",
			"opt_out_email_confirmation:B", "opt_out_auto_confirmation:B", "supervisor",
		},
		prefixed("corporate_address_", addressColumns...),
		prefixed("corporate_contact_", contactColumns...),
		prefixed("billing_address_", addressColumns...),
		prefixed("billing_contact_", contactColumns...),
		[]string{"external_id", "etag"},
	),
	"employees": concat(
		[]string{
			"id:L", "username", "fullname", "email", "personal_email", "phone", "cellphone",
			"crew", "fax", "active:B", "holiday_pay:B", "weekly_hours:L", "user_class",
			"user_type_id:L", "birth_date", "rate", "piece_pay:B", "title", "notes",
			"elligible_for_rehire:B", "hire_date", "office_ids", "payroll_id", "auto_lunch",
			"department_type_id:L", "offices", "reports_to", "created_at:U", "updated_at:U",
		},
		prefixed("address_", addressColumns...),
		[]string{"etag", "timezone"},
	),
	"floorplans": {
		"id:L", "name", "community", "customer", "city", "customer_id:L",
		"customer_external_id", "community_external_id", "active_date", "inactive_date",
		"bid_number", "square_footage:F", "labor_hours:F", "contract_price:F", "work_unit",
		"etag", "extended_labor_costs",
	},
	"invoices": {
		"id:L", "work_order_id:L", "accounting_id", "job_id:L", "customer_id:L", "status",
		"object", "extras", "total:F", "created_by", "created_by_id:L", "number", "summary",
		"contract_details", "last_error", "job_ids", "work_order_ids", "po_numbers",
		"created_at:U", "updated_at:U", "work_order_type", "etag",
	},
	"job_type_configuration": {"job_type_id:L", "description", "offices"},
	"jobs": {
		"id:L", "address", "lot", "block", "active:B", "floorplan", "community", "city",
		"customer", "customer_id:L", "office", "home_owner", "home_owner_email",
		"home_owner_phone", "permit_number", "permit_date", "start_date:D",
		"builder_job_number", "created_at:U", "updated_at:U", "notes", "zip",
		"accounting_number", "under_warranty:B", "municipality", "customer_external_id",
		"community_external_id", "job_type_id:L", "job_type", "close_date:D",
		"floorplan_id:L", "etag",
	},
	"offices":   {"id:L", "name", "address", "created_at:U", "updated_at:U", "etag"},
	"schedules": workOrderColumns,
	"takeoff_types": {
		"id:L", "work_order_type", "work_order_type_id:L", "description", "allow_notes:B",
		"device_display:B", "transpose:B", "print_landscape:B",
		"print_differential_upon_submit:B", "display_order:L", "active:B",
		"takeoff_columns", "created_at:U", "updated_at:U", "etag",
	},
	"types": {
		"id:L", "description", "web_display:B", "display_order:L", "category",
		"device_display:B", "work_order_type_id:L", "created_at:U", "updated_at:U", "etag",
	},
	"work_order_types": {
		"id:L", "name", "active:B", "display_order:L", "device_display:B",
		"forecast_order:L", "completed_email", "office_ids", "billing_contract_type_ids",
		"offices", "billing_contract_types", "secondary_service", "recurring_workorder",
		"standard_billing", "work_type_id:L", "work_type", "department_type_id:L",
		"department_type", "printing_options", "auto_send_confirmation_email",
		"custom_field1", "auto_confirm", "etag",
	},
	"work_orders": workOrderColumns,
	"job_events": concat(
		[]string{"event_id", "id:L", "event", "author", "created_at", "changes"},
		prefixed("job_",
			"id:L", "lot", "zip", "city", "etag", "block", "notes", "active:B", "office",
			"address", "customer", "community", "floorplan", "created_at:U", "home_owner",
			"start_date", "updated_at:U", "customer_id:L", "job_type_id:L", "permit_date",
			"floorplan_id:L", "municipality", "permit_number", "under_warranty:B",
			"home_owner_email", "home_owner_phone", "accounting_number",
			"builder_job_number", "customer_external_id", "community_external_id",
		),
	),
	"work_order_events": concat(
		[]string{"event_id", "event", "created_at", "author", "changes"},
		prefixed("work_order_",
			"id:L", "etag", "crews", "notes", "stage", "crew_ids", "created_at:U",
			"crew_notes", "home_owner", "job_number:L", "updated_at:U", "labor_total:F",
			"price_total:F", "supervisor_id:L", "completed_date", "reschedule_date",
			"work_order_type", "home_owner_email", "home_owner_phone",
			"job_extras_charges", "work_order_type_id:L", "appointment_end_time",
			"appointment_start_time", "floorplan_labor_charge:F", "schedule_change_reason",
			"schedule_change_comment", "crew_pay_extra_added_pay:F",
			"percentage_of_completion:L", "estimated_completion_date",
			"floorplan_contract_charge:F", "floorplan_options_charges",
		),
	),
	"work_order_status_events": concat(
		[]string{"event_id", "id:L", "event", "author", "created_at", "changes"},
		prefixed("status_",
			"id:L", "status:B", "updated_at", "description", "work_order_id:L",
			"work_order_status_type_id:L",
		),
	),
}

// Schema returns the destination schema of every registry table, in
// registry order.
func Schema() []domain.TableSchema {
	out := make([]domain.TableSchema, 0, len(Tables))
	for _, t := range Tables {
		out = append(out, TableSchemaFor(t))
	}
	return out
}

// TableSchemaFor returns the declared schema of one table.
func TableSchemaFor(t domain.Table) domain.TableSchema {
	return domain.TableSchema{
		Table:      t.Name,
		PrimaryKey: t.PrimaryKey,
		Columns:    columns(tableColumns[t.Name]...),
	}
}
