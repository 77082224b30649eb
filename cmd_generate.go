package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

type generateOptions struct {
	fields     []string
	data       string
	output     string
	format     string
	level      string
	backend    string
	title      string
	terminal   bool
	halfBlocks bool
	print      bool

	shape      string
	fg         string
	bg         string
	gradient   string
	frame      string
	frameColor string
	moduleSize int
	quietZone  int
	logo       string
	caption    string
}

func newGenerateCmd(a *app) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <type>",
		Short: "Generate a single QR code",
		Long: `Generate a single QR code of the given content type (text, url, email,
phone, wifi, sms, vcard). Fields are passed with --field name=value or as one
--data value in the batch data format. Without --output the code is drawn in
the terminal.`,
		Example: `  qrstudio generate url --field url=https://example.com -o site.png
  qrstudio generate wifi --data 'ssid=Home&security=WPA&password=secret' -o wifi.pdf
  qrstudio generate text --field text=hello`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&o.fields, "field", "f", nil, "Field as name=value (repeatable)")
	f.StringVar(&o.data, "data", "", "All fields in batch data format (JSON object or query string)")
	f.StringVarP(&o.output, "output", "o", "", "Output file")
	f.StringVar(&o.format, "format", "", "Output format: png, jpg, svg, pdf (default from --output extension)")
	f.StringVar(&o.level, "ec", "", "Error correction level: L, M, Q, H")
	f.StringVar(&o.backend, "encoder", "", "Encoder backend: "+strings.Join(encoder.Backends, ", "))
	f.StringVar(&o.title, "title", "", "PDF page title")
	f.BoolVarP(&o.terminal, "terminal", "t", false, "Also draw the code in the terminal")
	f.BoolVar(&o.halfBlocks, "half-blocks", true, "Use half-height blocks in the terminal")
	f.BoolVar(&o.print, "print", false, "Send the code to the printer")

	f.StringVar(&o.shape, "shape", "", "Module shape")
	f.StringVar(&o.fg, "fg", "", "Foreground color")
	f.StringVar(&o.bg, "bg", "", "Background color (\"transparent\" allowed)")
	f.StringVar(&o.gradient, "gradient", "", "Gradient: none, linear, radial")
	f.StringVar(&o.frame, "frame", "", "Frame pattern, prefix rounded- for rounded corners")
	f.StringVar(&o.frameColor, "frame-color", "", "Frame color")
	f.IntVar(&o.moduleSize, "module-size", 0, "Module edge in pixels")
	f.IntVar(&o.quietZone, "quiet-zone", -1, "Quiet zone in modules")
	f.StringVar(&o.logo, "logo", "", "Logo image placed at the center")
	f.StringVar(&o.caption, "caption", "", "Caption below the code")
	return cmd
}

// parseFields merges --data and --field values; --field wins.
func parseFields(t payload.ContentType, data string, pairs []string) (payload.FieldSet, error) {
	fields := payload.FieldSet{}
	if data != "" {
		parsed, err := payload.ParseData(t, data)
		if err != nil {
			return nil, err
		}
		fields = parsed
	}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("field %q: want name=value", p)
		}
		fields[name] = value
	}
	return fields, nil
}

func (o *generateOptions) style(base render.Style) (render.Style, error) {
	s := base
	var err error
	if o.shape != "" {
		if s.Shape, err = render.ParseShape(o.shape); err != nil {
			return s, err
		}
	}
	if o.gradient != "" {
		if s.Gradient, err = render.ParseGradient(o.gradient); err != nil {
			return s, err
		}
	}
	if o.frame != "" {
		if s.Frame, s.FrameRounded, err = render.ParseFrame(o.frame); err != nil {
			return s, err
		}
	}
	for _, c := range []struct {
		val string
		dst *color.RGBA
	}{
		{o.fg, &s.Foreground},
		{o.bg, &s.Background},
		{o.frameColor, &s.FrameColor},
	} {
		if c.val == "" {
			continue
		}
		if *c.dst, err = render.ParseColor(c.val); err != nil {
			return s, err
		}
	}
	if o.moduleSize > 0 {
		s.ModuleSize = o.moduleSize
	}
	if o.quietZone >= 0 {
		s.QuietZone = o.quietZone
	}
	if o.logo != "" {
		s.LogoPath = o.logo
	}
	if o.caption != "" {
		s.Caption = o.caption
	}
	return s, s.Validate()
}

func runGenerate(cmd *cobra.Command, a *app, o *generateOptions, typeName string) error {
	t, err := payload.ParseContentType(typeName)
	if err != nil {
		return err
	}
	fields, err := parseFields(t, o.data, o.fields)
	if err != nil {
		return err
	}
	p, err := payload.Format(t, fields)
	if err != nil {
		return err
	}
	if t == payload.URL {
		if warn := payload.CheckURL(p.String()); warn != nil {
			a.log.Warn().Str("url", p.String()).Msg(warn.Error())
		}
	}

	if o.level != "" {
		a.cfg.Encoder.ErrorCorrection = o.level
	}
	if o.backend != "" {
		a.cfg.Encoder.Backend = o.backend
	}
	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	enc, err := encoder.New(a.cfg.Encoder.Backend)
	if err != nil {
		return err
	}
	m, err := enc.Encode(p.String(), level)
	if err != nil {
		return err
	}

	if (o.output == "" && !o.print) || o.terminal {
		render.Terminal(cmd.OutOrStdout(), p.String(), level, o.halfBlocks)
	}
	if o.output == "" && !o.print {
		return nil
	}

	base, err := a.cfg.RenderStyle()
	if err != nil {
		return err
	}
	s, err := o.style(base)
	if err != nil {
		return err
	}
	exp := export.New(a.log, s, export.PDFOptions{Author: a.cfg.PDF.Author, Creator: a.cfg.PDF.Creator})

	if o.output != "" {
		var format export.Format
		if o.format != "" {
			format, err = export.ParseFormat(o.format)
		} else {
			format, err = export.FormatFromPath(o.output)
		}
		if err != nil {
			return err
		}
		n, err := exp.WriteFile(o.output, m, format, o.title)
		if err != nil {
			return err
		}
		a.log.Info().Str("path", o.output).Int64("bytes", n).Str("type", t.String()).Msg("qr code written")
	}
	if o.print {
		pr := export.NewPrinter(exp, a.cfg.Print.Command, a.log)
		if err := pr.Print(cmd.Context(), m, o.title); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		a.log.Info().Str("command", a.cfg.Print.Command).Msg("sent to printer")
	}
	return nil
}
