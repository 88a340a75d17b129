package urls

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sol-eng/wbi/pkg/manifest"
	"github.com/sol-eng/wbi/pkg/osinfo"
	"github.com/sol-eng/wbi/pkg/report"
	"github.com/sol-eng/wbi/pkg/resolve"
	"github.com/sol-eng/wbi/pkg/types"
)

const (
	keyOS          = "os"
	keyAll         = "all"
	keyOutput      = "output"
	keyManifestURL = "manifest-url"
	keyTimeout     = "timeout"
	keyRetries     = "retries"
)

// For testing.
var detectOS = osinfo.Detect

type urlsOpts struct {
	os          string
	all         bool
	output      string
	manifestURL string
	timeout     time.Duration
	retries     int

	// osFromFlag is set when os was given as --os rather than through
	// WBI_OS or the config file.
	osFromFlag bool
}

func setURLsOpts(v *viper.Viper, opts *urlsOpts, osFromFlag bool) {
	opts.os = v.GetString(keyOS)
	opts.all = v.GetBool(keyAll)
	opts.output = v.GetString(keyOutput)
	opts.manifestURL = v.GetString(keyManifestURL)
	opts.timeout = v.GetDuration(keyTimeout)
	opts.retries = v.GetInt(keyRetries)
	opts.osFromFlag = osFromFlag

	// --all wins over an os default from the environment or config file.
	if opts.all && !osFromFlag && opts.os != "" {
		log.WithField(keyOS, opts.os).Debugf("--%s given, ignoring %s from the environment or config file", keyAll, keyOS)
		opts.os = ""
	}
}

// Validate reports every invalid option at once.
func (opts *urlsOpts) Validate() error {
	var result *multierror.Error

	if opts.all && opts.osFromFlag {
		result = multierror.Append(result, fmt.Errorf("--%s and --%s are mutually exclusive", keyOS, keyAll))
	}
	if opts.os != "" {
		if _, err := osinfo.ParseCode(opts.os); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if _, err := report.ParseFormat(opts.output); err != nil {
		result = multierror.Append(result, err)
	}
	if u, err := url.ParseRequestURI(opts.manifestURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid manifest URL: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result, fmt.Errorf("manifest URL must be http or https, got %q", u.Scheme))
	}
	if opts.timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("--%s must not be negative", keyTimeout))
	}
	if opts.retries < 0 {
		result = multierror.Append(result, fmt.Errorf("--%s must not be negative", keyRetries))
	}

	return result.ErrorOrNil()
}

// NewURLsCmd returns the command printing the Connect and Package Manager
// installer URLs. Flags are bound to v so they can also come from WBI_*
// environment variables or the config file.
func NewURLsCmd(v *viper.Viper) *cobra.Command {
	opts := urlsOpts{}

	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Print the Connect and Package Manager installer URLs for an operating system",
		Example: `  wbi urls --os U22
  wbi urls --os RH8 --output json
  wbi urls --all`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			setURLsOpts(v, &opts, cmd.Flags().Changed(keyOS))
			return opts.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.WithField("opts", fmt.Sprintf("%+v", opts)).Trace("urls-opts")
			return runURLs(cmd, &opts)
		},
	}

	flags := cmd.Flags()
	flags.String(keyOS, "", "Operating system code: U20, U22, RH7, RH8 or RH9 (detected from /etc/os-release when omitted)")
	flags.Bool(keyAll, false, "Print the URLs for every supported operating system")
	flags.StringP(keyOutput, "o", string(report.FormatText), "Output format: text or json")
	flags.String(keyManifestURL, manifest.DefaultURL, "Location of the downloads manifest")
	flags.Duration(keyTimeout, 0, "Timeout for fetching the manifest, 0 waits indefinitely")
	flags.Int(keyRetries, 0, "Number of times to retry a failed manifest fetch")

	return cmd
}

func runURLs(cmd *cobra.Command, opts *urlsOpts) error {
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	fetcher := manifest.NewFetcher(manifest.Options{
		URL:     opts.manifestURL,
		Timeout: opts.timeout,
		Retries: uint64(opts.retries),
	})
	resolver := resolve.NewResolver(fetcher)

	var results types.Results
	if opts.all {
		results, err = resolver.ResolveAll(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "resolving installer URLs")
		}
	} else {
		code, err := codeFromOpts(opts)
		if err != nil {
			return err
		}
		res, err := resolver.Resolve(cmd.Context(), code)
		if err != nil {
			return errors.Wrapf(err, "resolving installer URLs for %s", code)
		}
		results = types.Results{*res}
	}

	return report.Write(cmd.OutOrStdout(), format, results...)
}

func codeFromOpts(opts *urlsOpts) (types.OSCode, error) {
	if opts.os != "" {
		return osinfo.ParseCode(opts.os)
	}
	code, err := detectOS()
	if err != nil {
		return "", errors.Wrap(err, "no --os given and the host OS could not be detected")
	}
	log.Infof("Detected operating system %s", code)
	return code, nil
}
