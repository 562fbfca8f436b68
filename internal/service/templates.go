package service

// ResponseTemplates holds the per-category reply skeletons fed into the
// response-generation prompt. The model picks and fills the appropriate one.
type ResponseTemplates struct {
	templates map[string]string
}

// NewResponseTemplates returns the built-in template set.
func NewResponseTemplates() *ResponseTemplates {
	return &ResponseTemplates{templates: map[string]string{
		"access_issue": `Hello {name},

I understand you're having trouble accessing the {feature}. Let me help you resolve this.

{diagnosis}

{resolution_steps}

Priority Status: {priority_level}
Estimated Resolution: {eta}

Please let me know if you need any clarification.

Best regards,
Support Team`,

		"billing_inquiry": `Hi {name},

Thank you for your inquiry about {billing_topic}.

{explanation}

{next_steps}

If you have any questions, don't hesitate to ask.

Best regards,
Billing Team`,

		"feature_request": `Hello {name},

Thank you for your feature suggestion regarding {feature_name}.

{acknowledgment}

{status_update}

{timeline}

We appreciate your input in making our product better.

Best regards,
Product Team`,

		"technical_issue": `Hi {name},

Thank you for reporting the technical issue you're experiencing with {affected_component}.

{technical_analysis}

{solution_steps}

Current Status: {status}
Expected Resolution: {timeline}

If you need immediate assistance, you can reach our technical team at:
{support_contact}

Best regards,
Technical Support Team`,

		"urgent_issue": `URGENT RESPONSE

Hello {name},

We understand the critical nature of your issue regarding {issue_summary}.

{immediate_actions}

{escalation_status}

We have assigned a dedicated specialist to your case:
Specialist: {specialist_name}
Direct Contact: {specialist_contact}

We are treating this with highest priority and will provide updates every {update_frequency}.

Urgent Support Line: {urgent_support_contact}

Best regards,
Senior Support Team`,
	}}
}

// All returns the full template set for prompt construction.
func (t *ResponseTemplates) All() map[string]string {
	out := make(map[string]string, len(t.templates))
	for k, v := range t.templates {
		out[k] = v
	}
	return out
}
