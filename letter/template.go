package letter

import (
	"html/template"
	"strings"
	"time"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
)

// Images holds the resolved sources for the letter artwork, usually data URIs.
// An empty source omits that image element from the document; each slot is
// laid out independently so omission never shifts the others.
type Images struct {
	InstituteLogo     string
	ClubLogo          string
	FacultySign       string
	PresidentSign     string
	VicePresidentSign string
}

// letterData is the substitution set for one rendering
type letterData struct {
	Title             string
	Date              string
	NameUpper         string
	RegNo             string
	Team              string
	Tenure            string
	InstituteLogo     template.URL
	ClubLogo          template.URL
	FacultySign       template.URL
	PresidentSign     template.URL
	VicePresidentSign template.URL
}

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: 'Times New Roman', Times, serif;
            margin: 0;
            padding: 0;
            background-color: #f0f2f5;
            position: relative;
            min-height: 100vh;
        }

        .container {
            width: 8.5in;
            height: 11in;
            margin: 0 auto;
            background: #fff;
            padding: 1in;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.1);
            box-sizing: border-box;
            position: relative;
            overflow: hidden;
            display: flex;
            flex-direction: column;
        }

        .header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 30px;
            position: relative;
            z-index: 2;
        }

        .logo-slot {
            height: 80px;
            width: 150px;
            display: flex;
            align-items: center;
            justify-content: center;
        }

        .logo-slot img {
            height: 70px;
            width: auto;
            object-fit: contain;
        }

        .title {
            font-size: 28px;
            font-weight: 700;
            color: #2c3e50;
            text-align: center;
            margin: 30px 0;
            text-transform: uppercase;
            letter-spacing: 3px;
            position: relative;
            z-index: 2;
        }

        .title::after {
            content: '';
            position: absolute;
            bottom: -10px;
            left: 50%;
            transform: translateX(-50%);
            width: 100px;
            height: 4px;
            background: linear-gradient(90deg, #007bff, #28a745);
            border-radius: 2px;
        }

        .date {
            font-size: 14px;
            margin-bottom: 6px;
            position: relative;
            z-index: 2;
        }

        .dear {
            margin-bottom: 4px;
            font-weight: 700;
            text-transform: uppercase;
            color: #2c3e50;
        }

        .content {
            font-size: 13px;
            line-height: 1.8;
            color: #34495e;
            text-align: justify;
            position: relative;
            z-index: 2;
            flex: 1;
        }

        .content p {
            margin-bottom: 16px;
        }

        .content p:first-child {
            font-size: 16px;
            font-weight: 600;
            color: #007bff;
            text-align: center;
            margin-bottom: 25px;
            background: linear-gradient(135deg, #e3f2fd, #f0f8ff);
            padding: 15px;
            border-radius: 8px;
            border-left: 4px solid #007bff;
        }

        .content b {
            font-weight: 700;
            color: #2c3e50;
        }

        .signatures {
            margin-top: auto;
            display: flex;
            justify-content: space-between;
            align-items: flex-end;
            padding-top: 50px;
            position: relative;
            z-index: 2;
        }

        .signature-block {
            text-align: center;
            font-size: 12px;
            position: relative;
        }

        .signature-block img {
            height: 70px;
            display: block;
            margin: 0 auto 8px;
            object-fit: contain;
        }

        .signature-line {
            width: 160px;
            height: 1px;
            background: #34495e;
            margin: 0 auto 10px auto;
        }

        .signature-title {
            font-weight: 700;
            color: #2c3e50;
            margin-bottom: 5px;
        }

        .signature-subtitle {
            font-size: 10px;
            color: #7f8c8d;
            font-style: italic;
        }

        .background-wave {
            position: absolute;
            bottom: -50px;
            left: 0;
            width: 100%;
            height: 200px;
            background: linear-gradient(135deg, #007bff, #0056b3);
            clip-path: polygon(0 80%, 100% 50%, 100% 100%, 0 100%);
            opacity: 0.1;
            z-index: 1;
        }

        .decorative-circle {
            position: absolute;
            top: 100px;
            right: -30px;
            width: 120px;
            height: 120px;
            background: linear-gradient(135deg, #28a745, #20c997);
            border-radius: 50%;
            opacity: 0.05;
            z-index: 1;
        }

        .decorative-circle2 {
            position: absolute;
            bottom: 250px;
            left: -40px;
            width: 100px;
            height: 100px;
            background: linear-gradient(135deg, #ffc107, #fd7e14);
            border-radius: 50%;
            opacity: 0.05;
            z-index: 1;
        }

        @media print {
            body {
                background-color: white;
            }
            .container {
                box-shadow: none;
                margin: 0;
                padding: 0.8in;
            }
        }

        @media (max-width: 600px) {
            .container {
                padding: 0.6in;
                width: auto;
            }
            .title { font-size: 18px; }
            .content { font-size: 12px; }
            .signature-line { width: 120px; }
        }
    </style>
</head>
<body>

<div class="container">
    <div class="background-wave"></div>
    <div class="decorative-circle"></div>
    <div class="decorative-circle2"></div>

    <div class="header">
        <div class="logo-slot">
            {{if .InstituteLogo}}<img src="{{.InstituteLogo}}" alt="VIT Bhopal Logo" />{{end}}
        </div>
        <div class="logo-slot">
            {{if .ClubLogo}}<img src="{{.ClubLogo}}" alt="GSoC Innovators Club Logo" />{{end}}
        </div>
    </div>

    <h1 class="title">Letter of Appointment</h1>

    <p class="date">{{.Date}}</p>
    <p class="dear">Dear {{.NameUpper}},</p>
    <p class="dear">Registration No: {{.RegNo}}</p>

    <div class="content">
        <p>Welcome to the GSoC Innovators Family!</p>
        <p>We are absolutely thrilled to have you join our prestigious GSoC Innovators Club community. You have been selected as a <b>Core Member</b> of the <b>{{.Team}}</b> team for the {{.Tenure}} academic tenure. After reviewing your application and considering your skills, enthusiasm, and passion for innovation, we are confident that your contributions will play a key role in driving our club's vision forward.</p>
        <p>Your unique perspective and expertise will be invaluable to our team, and we're excited for your involvement in brainstorming innovative project ideas, working on cutting-edge open-source solutions, and contributing to the growth of the GSoC innovators family. As a core member, your role will require dedication, collaboration, and a strong commitment to the values and mission of our club.</p>
        <p>This appointment comes with exciting opportunities to work on real-world projects, participate in Google Summer of Code preparations, attend exclusive workshops and seminars, and build lasting connections with industry professionals and fellow innovators. We are certain you will be an invaluable asset to our team and can't wait to see the impact your innovative ideas will have on our initiatives.</p>
        <p><b>Congratulations on being selected, and welcome to the team! We look forward to an exciting and enriching journey of growth, learning, and innovation ahead with you.</b></p>
    </div>

    <div class="signatures">
        <div class="signature-block">
            {{if .FacultySign}}<img src="{{.FacultySign}}" alt="Faculty Signature" />{{end}}
            <div class="signature-line"></div>
            <div class="signature-title">Faculty Coordinator</div>
            <div class="signature-subtitle">GSoC Innovators Club</div>
        </div>
        <div class="signature-block">
            {{if .PresidentSign}}<img src="{{.PresidentSign}}" alt="President Signature" />{{end}}
            <div class="signature-line"></div>
            <div class="signature-title">President</div>
            <div class="signature-subtitle">GSoC Innovators Club</div>
        </div>
        <div class="signature-block">
            {{if .VicePresidentSign}}<img src="{{.VicePresidentSign}}" alt="Vice President Signature" />{{end}}
            <div class="signature-line"></div>
            <div class="signature-title">Vice President</div>
            <div class="signature-subtitle">GSoC Innovators Club</div>
        </div>
    </div>

</div>

</body>
</html>
`))

// Render produces the complete, self-contained appointment letter document
// for a member. It is pure: identical inputs yield byte-identical output.
// The salutation uppercases the name; the registration number and team are
// inserted verbatim; the date renders in the fixed en-US long style.
func Render(member models.Member, date time.Time, tenure string, images Images) (string, error) {
	data := letterData{
		Title:             "Appointment Letter - " + member.Name,
		Date:              date.Format("January 2, 2006"),
		NameUpper:         strings.ToUpper(member.Name),
		RegNo:             member.RegNo,
		Team:              member.Team,
		Tenure:            tenure,
		InstituteLogo:     template.URL(images.InstituteLogo),
		ClubLogo:          template.URL(images.ClubLogo),
		FacultySign:       template.URL(images.FacultySign),
		PresidentSign:     template.URL(images.PresidentSign),
		VicePresidentSign: template.URL(images.VicePresidentSign),
	}

	var b strings.Builder
	if err := letterTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
