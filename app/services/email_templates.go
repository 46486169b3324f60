package services

import "html/template"

const emailShell = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #e0e0e0; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #003366; padding: 20px; text-align: center;">
    <h2 style="color: #ffffff; margin: 0;">{{template "title" .}}</h2>
  </div>
  <div style="padding: 20px; background-color: #ffffff;">{{template "content" .}}</div>
  <div style="background-color: #eeeeee; padding: 10px; text-align: center; font-size: 12px; color: #777;">E-Fine SL Project | Department of Motor Traffic</div>
</div>`

func mustEmailTemplate(name, title, content string) *template.Template {
	t := template.Must(template.New(name).Parse(emailShell))
	template.Must(t.New("title").Parse(title))
	template.Must(t.New("content").Parse(content))
	return t
}

var licenseSuspendedTmpl = mustEmailTemplate("license_suspended", "Driving Licence Suspended", `
    <p style="font-size: 16px; color: #333;">Dear {{.Name}},</p>
    <p style="font-size: 16px; color: #333;">Your driving licence has been <strong>suspended</strong>.</p>
    <p style="font-size: 14px; color: #555;">Reason: {{.Reason}}</p>
    <p style="font-size: 14px; color: #555;">Please settle any outstanding fines or contact your nearest police station for assistance.</p>`)

var licenseActivatedTmpl = mustEmailTemplate("license_activated", "Driving Licence Reactivated", `
    <p style="font-size: 16px; color: #333;">Dear {{.Name}},</p>
    <p style="font-size: 16px; color: #333;">Your driving licence is <strong>active</strong> again. Drive safely.</p>`)

var officerVerificationTmpl = mustEmailTemplate("officer_verification", "E-Fine SL Verification", `
    <p style="font-size: 16px; color: #333;">Dear OIC,</p>
    <p style="font-size: 16px; color: #333;">The following officer has requested official registration access:</p>
    <table style="width: 100%; margin-bottom: 20px; background-color: #f9f9f9; padding: 10px; border-radius: 5px;">
      <tr><td style="font-weight: bold; color: #555; padding: 5px;">Badge ID:</td><td style="font-weight: bold; color: #000; padding: 5px;">{{.Badge}}</td></tr>
      <tr><td style="font-weight: bold; color: #555; padding: 5px;">Station:</td><td style="font-weight: bold; color: #000; padding: 5px;">{{.Station}}</td></tr>
    </table>
    <div style="text-align: center; margin: 30px 0;">
      <p style="margin: 0; font-size: 14px; color: #777;">VERIFICATION CODE (OTP)</p>
      <h1 style="margin: 10px 0; font-size: 40px; color: #003366; letter-spacing: 5px; font-weight: bold;">{{.Code}}</h1>
    </div>
    <p style="color: #d9534f; font-size: 14px; text-align: center; font-weight: bold;">Please verify the officer's identity before providing this code.</p>`)
